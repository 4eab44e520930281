// cipherweave/sink/stdout/driver.go
package stdout

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"cipherweave/sink"
)

/* ────────── public config ────────── */
type Config struct {
	JSON   bool      `koanf:"json"` // one JSON record per line instead of the document
	Output io.Writer `koanf:"-"`    // os.Stdout when nil
}

/* ────────── driver ────────── */
type driver struct {
	cfg Config

	mu sync.Mutex // serialises writes from concurrent runs
}

/* ────────── sink.Adapter ────────── */
func (d *driver) Configure(raw any) error {
	c, ok := raw.(Config)
	if !ok {
		return fmt.Errorf("stdout-sink: expected Config, got %T", raw)
	}
	if c.Output == nil {
		c.Output = os.Stdout
	}
	d.cfg = c
	return nil
}

func (d *driver) Push(r sink.Record) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cfg.JSON {
		return json.NewEncoder(d.cfg.Output).Encode(r)
	}
	_, err := fmt.Fprintf(d.cfg.Output, "\nCipher Template Output:\n%s", r.Document)
	return err
}

func (d *driver) Close() error { return nil }

/* ────────── auto-register ────────── */
func init() {
	sink.Register("stdout", func() sink.Adapter { return &driver{} })
}

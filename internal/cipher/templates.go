package cipher

import "strings"

// Restore instructions. The wording is consumed downstream and must not
// drift; only the {placeholders} are substituted.
const (
	caesarTemplate              = "Using code, Caesar shift every letter {shift} positions backward (left) to restore.  Everything else like spaces, numbers, marks, etc. remains the same."
	asciiTemplate               = "The ASCII code numbers in the sentence are separated by spaces, each ASCII code represents a character. Replace it one by one with the original character."
	atbashTemplate              = "Using code, mirror each A–Z/a–z across the alphabet (Atbash) to restore.  For example, replace A with Z, B with Y, C with X, and so on. Everything else like spaces, numbers, marks, etc. remains the same"
	vigenereTemplate            = "Using code, decrypt using the Vigenere cipher with the following key: '{key}'. Everything else like spaces, numbers, marks, etc. remains the same. The new string and the original string must have the same length."
	reverseWordOrderTemplate    = "Using code, split on whitespace and join the tokens in reverse order."
	wordReplacementTemplate     = "Using code, replace the words in the string. Words are separated by spaces. Words can include numbers and special characters. Change the original word to the replacement word. The mapping between the original word and the replacement word is one-to-one, that is, the same word in the string must correspond to a unique replacement word, and a replacement word can only correspond to one original word. The replacement policy is a dictionary {replacement_dict_str}, the key in the dictionary is the original word, and the value is the replacement word. Find the replacement word corresponding to each original word in the string and replace it to generate the final new string"
	blockReverseTemplate        = "Using code, split it into 3 substrings of equal length (A, B, C, ...). Reverse the order of the characters in each substring, and keep the original order between the strings, that is, (A_reversed, B_reversed, C_reversed, ...). Finally, concatenate all the substrings together in ascending order. For example, (’abcdef’) and n is 3, split into (’ab’, ’cd’, ’ef’), then reverse to (’ba’, ’dc’, ’fe’), and finally concatenate to (’badcfe’)"
	reverseCapitalizeTemplate   = "Using code, reverse the order of the characters in the sentence to create a string of the same length, capitalizing the first letter."
	gridCoordinateTemplate      = "Using code, create a grid of size a × b and plot the alphabet into it from left to right, top to bottom, for example, with a = {a} and b = {b}, then A becomes (0, 0), B becomes (0, 1), and so on. Split the ciphered string by space then replace each (x, y) coordinate with the corresponding char acter in the grid. Everything else like number, marks, etc., remains the same."
	reverseCharsInWordsTemplate = "Using code, reverse each word in the string by characters. The order of the words must remain the same."
	hexEncodeTemplate           = "Using code, split on spaces and interpret each HEX pair to restore the original character."
)

// fill replaces each placeholder/value pair in tmpl.
func fill(tmpl string, pairs ...string) string {
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

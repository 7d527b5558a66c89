package ports

// Tokenizer splits one line of a record file into its cells.
type Tokenizer interface {
	// Tokenize appends the non-empty whitespace-separated tokens of line to
	// dst and returns the extended slice. Tabs count as whitespace.
	Tokenize(line string, dst []string) []string
}

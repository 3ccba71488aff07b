package domain

// Word represents a word-definition pair stored in a unit file
type Word struct {
	Word       string `json:"word"`
	Definition string `json:"definition"`
}

// Unit is a named chunk of the dictionary
type Unit struct {
	Name  string
	Words []Word
}

// Package model defines the data structures shared by the style checker.
package model

// Path represents a file system path.
type Path string

// Language identifies the grammar a unit was parsed with.
type Language string

const (
	// LanguageTemplate is Angular template markup (.html files and inline templates).
	LanguageTemplate Language = "template"
	// LanguageTypeScript is TypeScript source.
	LanguageTypeScript Language = "typescript"
)

// Position is a 1-based line/column pair.
type Position struct {
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

// Location pins a position to a file.
type Location struct {
	File   Path `json:"file" yaml:"file"`
	Line   int  `json:"line" yaml:"line"`
	Column int  `json:"column" yaml:"column"`
}

// At returns the location of pos inside path.
func At(path Path, pos Position) Location {
	return Location{File: path, Line: pos.Line, Column: pos.Column}
}

// Less orders locations by file, line and column.
func (l Location) Less(o Location) bool {
	if l.File != o.File {
		return l.File < o.File
	}

	if l.Line != o.Line {
		return l.Line < o.Line
	}

	return l.Column < o.Column
}

// Comment is a source comment kept for suppression directives.
type Comment struct {
	Text string
	Pos  Position
	// OwnLine is true when nothing but whitespace precedes the comment on its line.
	OwnLine bool
}

// Unit is a parsed source file in grammar-neutral form.
type Unit struct {
	Path     Path
	Language Language
	Hash     string
	Root     *Node
	Comments []Comment
}

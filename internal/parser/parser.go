package parser

import (
	"io"

	"stats19/internal/table"
)

type Parser interface {
	Parse(r io.Reader) (*table.Table, int, error)
}

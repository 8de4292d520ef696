package main

import (
	"errors"
	"io"
	"log"
	"os"

	"github.com/gnemet/pptxtext/internal/extractor"
)

var errMissingPath = errors.New("usage: pptxtext <pptx_path>")

func main() {
	log.SetFlags(0)
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

// run extracts the presentation named by args[0] and writes its JSON
// document to stdout. Nothing is written when an error is returned.
func run(args []string, stdout io.Writer) error {
	if len(args) < 1 {
		return errMissingPath
	}

	text, err := extractor.Extract(args[0])
	if err != nil {
		return err
	}
	return extractor.WriteJSON(stdout, text)
}

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gnemet/pptxtext/internal/pptx"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run ./scripts/dump_shapes <pptx_path>")
	}

	prs, err := pptx.Open(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}
	defer prs.Close()

	for _, slide := range prs.Slides() {
		fmt.Printf("--- slide %d (%s) ---\n", slide.Number(), slide.PartName())
		for _, shape := range slide.Shapes() {
			th, hasText := shape.(pptx.TextHolder)
			fmt.Printf("<%s id=%d name=%q text=%v>\n", shape.Kind(), shape.ID(), shape.Name(), hasText)
			if hasText {
				fmt.Printf("  %q\n", th.Text())
			}
		}
	}
}

// Command convert-pdf extracts text from statement PDFs. With -dir it
// converts a whole directory into numbered statement<N>.txt files; with
// -file it prints one PDF's text to stdout.
package main

import (
	"flag"
	"fmt"

	"github.com/dvloznov/statement-insights/internal/logger"
	"github.com/dvloznov/statement-insights/internal/pdftext"
)

func main() {
	var (
		file   = flag.String("file", "", "single PDF to extract; text goes to stdout")
		srcDir = flag.String("dir", "", "directory of PDFs to convert")
		outDir = flag.String("out", "statements", "output directory for converted .txt files")
	)
	flag.Parse()

	log := logger.New()

	switch {
	case *file != "":
		text, err := pdftext.ExtractText(*file)
		if err != nil {
			log.Fatal().Err(err).Msg("Extraction failed")
		}
		fmt.Println(text)
	case *srcDir != "":
		written, err := pdftext.ConvertDir(*srcDir, *outDir)
		if err != nil {
			log.Fatal().Err(err).Msg("Conversion failed")
		}
		for _, name := range written {
			log.Info().Str("file", name).Msg("Converted")
		}
		log.Info().Int("count", len(written)).Str("dir", *outDir).Msg("Done")
	default:
		log.Fatal().Msg("Either -file or -dir is required")
	}
}

// Command upload-statement uploads a local statement file to GCS and prints
// the resulting gs:// URI, ready to submit to the API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dvloznov/statement-insights/internal/logger"
	"github.com/dvloznov/statement-insights/internal/store"
)

func main() {
	var (
		file   = flag.String("file", "", "local statement file to upload")
		bucket = flag.String("bucket", os.Getenv("SI_GCS_BUCKET"), "GCS bucket name (or set SI_GCS_BUCKET)")
		object = flag.String("object", "", "object name in the bucket (defaults to statements/<filename>)")
	)
	flag.Parse()

	log := logger.New()

	if *file == "" {
		log.Fatal().Msg("-file is required")
	}
	if *bucket == "" {
		log.Fatal().Msg("-bucket is required (or set SI_GCS_BUCKET)")
	}

	objectName := *object
	if objectName == "" {
		objectName = "statements/" + filepath.Base(*file)
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read file")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := store.UploadObject(ctx, *bucket, objectName, data); err != nil {
		log.Fatal().Err(err).Msg("Upload failed")
	}

	uri := fmt.Sprintf("gs://%s/%s", *bucket, objectName)
	log.Info().Str("uri", uri).Int("bytes", len(data)).Msg("Uploaded")
	fmt.Println(uri)
}

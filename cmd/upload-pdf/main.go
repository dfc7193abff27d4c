package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dvloznov/statement-normalizer/internal/gcsuploader"
	"github.com/dvloznov/statement-normalizer/internal/logger"
)

func main() {
	// Initialize structured logger
	log := logger.New()

	var (
		bucketName string
		objectName string
		filePath   string
		hintPath   string
	)

	flag.StringVar(&bucketName, "bucket", os.Getenv("GCS_BUCKET"), "GCS bucket name (or set GCS_BUCKET env)")
	flag.StringVar(&objectName, "object", "", "GCS object name (optional; defaults to file name)")
	flag.StringVar(&filePath, "file", "", "Path to local statement PDF (required)")
	flag.StringVar(&hintPath, "hint", "", "Path to optional plaintext hint; uploaded as a .txt sidecar")
	flag.Parse()

	if bucketName == "" || filePath == "" {
		log.Fatal().Msg("Usage: upload-pdf -bucket BUCKET_NAME -file /path/to/file.pdf [-object OBJECT_NAME] [-hint /path/to/file.txt]")
	}

	if objectName == "" {
		objectName = filepath.Base(filePath)
	}

	ctx := context.Background()
	ctx = logger.WithContext(ctx, log)

	log.Info().
		Str("bucket", bucketName).
		Str("object", objectName).
		Str("file", filePath).
		Msg("Uploading statement to GCS")

	if err := gcsuploader.UploadFile(ctx, bucketName, objectName, filePath); err != nil {
		log.Fatal().Err(err).Msg("Upload failed")
	}

	fmt.Printf("Uploaded %s to gs://%s/%s\n", filePath, bucketName, objectName)

	if hintPath != "" {
		ext := filepath.Ext(objectName)
		sidecar := strings.TrimSuffix(objectName, ext) + ".txt"

		if err := gcsuploader.UploadFile(ctx, bucketName, sidecar, hintPath); err != nil {
			log.Fatal().Err(err).Msg("Hint upload failed")
		}
		fmt.Printf("Uploaded hint %s to gs://%s/%s\n", hintPath, bucketName, sidecar)
	}
}

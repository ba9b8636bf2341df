package archive

import (
	"testing"

	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/tester"
)

func TestObjectKeyLayout(t *testing.T) {
	// Zero-padded days keep lexicographic listing in day order.
	tester.Eq(t, objectKey("run-1", 7), "run-1/day007.json")
	tester.Eq(t, objectKey("run-1", 12), "run-1/day012.json")
	tester.Eq(t, objectKey(" run-1 ", 1), "run-1/day001.json")
}

func TestNewS3ArchiveValidatesConfig(t *testing.T) {
	_, err := NewS3Archive(S3Config{AccessKey: "a", SecretKey: "s", Bucket: "b"})
	tester.Err(t, err, "endpoint required")

	_, err = NewS3Archive(S3Config{Endpoint: "localhost:9000", Bucket: "b"})
	tester.Err(t, err, "credentials required")

	_, err = NewS3Archive(S3Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s"})
	tester.Err(t, err, "bucket required")

	arc, err := NewS3Archive(S3Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s", Bucket: "b"})
	tester.NoErr(t, err)
	tester.Eq(t, arc.region, "us-east-1")
}

package gcp

import (
	"context"
	"testing"
	"time"
)

func TestClampSignedURLTTL(t *testing.T) {
	cases := []struct {
		in, want time.Duration
	}{
		{0, 15 * time.Minute},
		{time.Hour, time.Hour},
		{30 * 24 * time.Hour, maxSignedURLTTL},
	}
	for _, tc := range cases {
		if got := clampSignedURLTTL(tc.in); got != tc.want {
			t.Fatalf("clampSignedURLTTL(%s): got=%s want=%s", tc.in, got, tc.want)
		}
	}
}

func TestSignedURLEmulatorMode(t *testing.T) {
	bs := &bucketService{cfg: ObjectStorageConfig{
		Mode:         ObjectStorageModeGCSEmulator,
		EmulatorHost: "http://fake-gcs:4443",
		NotesBucket:  "notes-bucket",
		AvatarBucket: "avatar-bucket",
	}, now: time.Now}

	got, err := bs.SignedURL(context.Background(), BucketCategoryNotes, "/notes/algebra 1.pdf", time.Hour)
	if err != nil {
		t.Fatalf("SignedURL: %v", err)
	}
	want := "http://fake-gcs:4443/storage/v1/b/notes-bucket/o/notes%2Falgebra%201.pdf?alt=media"
	if got != want {
		t.Fatalf("url: got=%q want=%q", got, want)
	}
}

func TestSignedURLRejectsUnknownCategory(t *testing.T) {
	bs := &bucketService{cfg: ObjectStorageConfig{Mode: ObjectStorageModeGCSEmulator, EmulatorHost: "http://x:1"}, now: time.Now}
	if _, err := bs.SignedURL(context.Background(), BucketCategory("material"), "k", time.Minute); err == nil {
		t.Fatalf("expected error for unknown category")
	}
}

func TestContentTypeForKey(t *testing.T) {
	if got := contentTypeForKey("user_avatar/x/1.PNG"); got != "image/png" {
		t.Fatalf("png: got=%q", got)
	}
	if got := contentTypeForKey("notes/a.pdf"); got != "application/pdf" {
		t.Fatalf("pdf: got=%q", got)
	}
	if got := contentTypeForKey("notes/a.bin"); got != "" {
		t.Fatalf("bin: got=%q", got)
	}
}

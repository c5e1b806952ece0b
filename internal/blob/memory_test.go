package blob

import (
	"bytes"
	"context"
	"io"
	"testing"
)

// TestPurpose: Validates the in-memory blob store round trip.
// Scope: Unit Test
// Expected: Put stores data and metadata; Get returns them; Delete reports prior existence; presigning is unsupported.
// Test Case ID: BLB-01
func TestMemoryStore_RoundTrip(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	payload := []byte("fake-image-bytes")
	info, err := s.Put(ctx, "avatars/farm-1/user-1.png", bytes.NewReader(payload), PutOptions{
		ContentType: "image/png",
	})
	if err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if info.Size != int64(len(payload)) {
		t.Errorf("expected size %d, got %d", len(payload), info.Size)
	}

	got, rc, err := s.Get(ctx, "avatars/farm-1/user-1.png")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	defer rc.Close()
	if got.ContentType != "image/png" {
		t.Errorf("expected image/png, got %s", got.ContentType)
	}
	data, _ := io.ReadAll(rc)
	if !bytes.Equal(data, payload) {
		t.Error("payload mismatch")
	}

	if _, _, err := s.Get(ctx, "missing"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if _, err := s.PresignURL(ctx, "avatars/farm-1/user-1.png", SignedURLOptions{Method: "GET"}); err != ErrUnsupported {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}

	existed, err := s.Delete(ctx, "avatars/farm-1/user-1.png")
	if err != nil || !existed {
		t.Errorf("expected delete of existing key, got existed=%v err=%v", existed, err)
	}
	existed, err = s.Delete(ctx, "avatars/farm-1/user-1.png")
	if err != nil || existed {
		t.Errorf("second delete should report absence, got existed=%v err=%v", existed, err)
	}
}

package clickhouse

import (
	"context"
	"testing"
)

func TestInsertPoints_Empty(t *testing.T) {
	// An empty batch never touches the connection.
	w := &Writer{}
	if err := w.InsertPoints(context.Background(), nil); err != nil {
		t.Fatalf("expected no error for empty batch, got %v", err)
	}
}

func TestWriteError_Message(t *testing.T) {
	err := toWriteError(context.DeadlineExceeded, "failed to send batch")
	want := "clickhouse: failed to send batch: context deadline exceeded"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestToWriteError_Nil(t *testing.T) {
	if err := toWriteError(nil, "anything"); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

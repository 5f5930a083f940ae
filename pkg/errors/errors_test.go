package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestKind(t *testing.T) {
	wrapped := fmt.Errorf("%w: %w", errors.New("床位不存在"), ErrLookupMiss)
	if Kind(wrapped) != ErrLookupMiss {
		t.Errorf("期望 ErrLookupMiss，實際 %v", Kind(wrapped))
	}
	if Kind(fmt.Errorf("x: %w", ErrEmptySelection)) != ErrEmptySelection {
		t.Error("期望 ErrEmptySelection")
	}
	if Kind(errors.New("connection reset")) != ErrBackendFailure {
		t.Error("未分類錯誤應視為後端失敗")
	}
}

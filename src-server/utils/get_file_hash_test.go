package utils_test

import (
	"strings"
	"testing"

	"stridercup/src-server/utils"
)

func TestGetFileHash(t *testing.T) {
	hash, err := utils.GetFileHash(strings.NewReader("hello"))
	if err != nil {
		t.Fatal(err)
	}
	if want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"; hash != want {
		t.Errorf("got %q, want %q", hash, want)
	}

	// same bytes, same object name
	again, err := utils.GetFileHash(strings.NewReader("hello"))
	if err != nil {
		t.Fatal(err)
	}
	if hash != again {
		t.Error("hash should be deterministic")
	}
}

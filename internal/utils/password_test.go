package utils

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "s3cret" {
		t.Fatal("hash should not equal the plaintext")
	}
	if !CheckPasswordHash("s3cret", hash) {
		t.Error("correct password should verify")
	}
	if CheckPasswordHash("wrong", hash) {
		t.Error("wrong password should not verify")
	}
}

func TestGenerateRandomKey(t *testing.T) {
	a, err := GenerateRandomKey(24)
	if err != nil {
		t.Fatalf("GenerateRandomKey failed: %v", err)
	}
	b, err := GenerateRandomKey(24)
	if err != nil {
		t.Fatalf("GenerateRandomKey failed: %v", err)
	}
	if a == b {
		t.Error("two keys should differ")
	}
	if len(a) != 32 { // 24 字节 base64url 无填充编码后 32 字符
		t.Errorf("unexpected key length %d", len(a))
	}
}

package services

import (
	"strings"
	"testing"
)

func TestGenerateMathProblem(t *testing.T) {
	s := NewCaptchaService()

	for i := 0; i < 100; i++ {
		question, answer := s.GenerateMathProblem()
		if question == "" {
			t.Fatal("empty question")
		}
		// 减法结果保证非负，乘法最大 5×5
		if answer < 0 || answer > 25 {
			t.Fatalf("answer %d out of range for %q", answer, question)
		}
		if !strings.ContainsAny(question, "+-×") {
			t.Fatalf("question %q has no operator", question)
		}
	}
}

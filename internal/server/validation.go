package server

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const (
	maxNameLength    = 40
	maxContactLength = 80
	maxInputLength   = 140
)

var validatorOnce sync.Once

func registerValidators() {
	validatorOnce.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = engine.RegisterValidation("name", func(fl validator.FieldLevel) bool {
			_, err := validateName(fl.Field().String())
			return err == nil
		})
		_ = engine.RegisterValidation("contact", func(fl validator.FieldLevel) bool {
			_, err := validateContact(fl.Field().String())
			return err == nil
		})
		_ = engine.RegisterValidation("freetext", func(fl validator.FieldLevel) bool {
			_, err := validateInput(fl.Field().String())
			return err == nil
		})
	})
}

func validateName(name string) (string, error) {
	return validateText("name", name, maxNameLength)
}

func validateContact(contact string) (string, error) {
	trimmed := strings.TrimSpace(contact)
	if trimmed == "" {
		return "", errors.New("contact is required")
	}
	if len(trimmed) > maxContactLength {
		return "", fmt.Errorf("contact must be %d characters or fewer", maxContactLength)
	}
	return trimmed, nil
}

// validateInput permits empty text: submitting an empty input withdraws the
// player's previous entry.
func validateInput(text string) (string, error) {
	trimmed := normalizeText(text)
	if trimmed == "" {
		return "", nil
	}
	if len(trimmed) > maxInputLength {
		return "", fmt.Errorf("input must be %d characters or fewer", maxInputLength)
	}
	if !isSafeText(trimmed) {
		return "", errors.New("input contains unsupported characters")
	}
	return trimmed, nil
}

func validateText(label, text string, maxLen int) (string, error) {
	trimmed := normalizeText(text)
	if trimmed == "" {
		return "", fmt.Errorf("%s is required", label)
	}
	if len(trimmed) > maxLen {
		return "", fmt.Errorf("%s must be %d characters or fewer", label, maxLen)
	}
	if !isSafeText(trimmed) {
		return "", fmt.Errorf("%s contains unsupported characters", label)
	}
	return trimmed, nil
}

func normalizeText(text string) string {
	fields := strings.Fields(strings.TrimSpace(text))
	return strings.Join(fields, " ")
}

func isSafeText(text string) bool {
	for _, r := range text {
		if r > 127 {
			return false
		}
		if r >= 'a' && r <= 'z' {
			continue
		}
		if r >= 'A' && r <= 'Z' {
			continue
		}
		if r >= '0' && r <= '9' {
			continue
		}
		switch r {
		case ' ', '-', '_', '\'', '"', '.', ',', '!', '?', ':', ';', '&', '(', ')', '/', '@', '+':
			continue
		default:
			return false
		}
	}
	return true
}

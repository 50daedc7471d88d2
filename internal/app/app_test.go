package app

import (
	"testing"

	"go.uber.org/fx"
)

func TestModuleGraphIsComplete(t *testing.T) {
	if err := fx.ValidateApp(Module); err != nil {
		t.Fatalf("fx graph invalid: %v", err)
	}
}

package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageByCode(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{
			name: "known code email in use",
			code: CodeEmailAlreadyInUse,
			want: "Este correo ya está registrado.",
		},
		{
			name: "known code wrong password",
			code: CodeWrongPassword,
			want: "La contraseña es incorrecta.",
		},
		{
			name: "unknown code falls back",
			code: "auth/some-new-code",
			want: "Ocurrió un error, inténtalo de nuevo.",
		},
		{
			name: "empty code falls back",
			code: "",
			want: "Ocurrió un error, inténtalo de nuevo.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MessageByCode(tt.code))
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "wrapped email taken",
			err:  fmt.Errorf("services.Register: %w", ErrEmailTaken),
			want: "Este correo ya está registrado.",
		},
		{
			name: "account disabled",
			err:  ErrAccountDisabled,
			want: "Este usuario ha sido deshabilitado.",
		},
		{
			name: "weak password",
			err:  ErrWeakPassword,
			want: "La contraseña es muy débil, usa al menos 6 caracteres.",
		},
		{
			name: "unknown error falls back",
			err:  fmt.Errorf("network down"),
			want: "Ocurrió un error, inténtalo de nuevo.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}

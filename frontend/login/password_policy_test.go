package login

import "testing"

func TestValidatePasswordPolicy(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "valid", password: "Loja-Centro-2026!", wantErr: false},
		{name: "too short", password: "Ab1!", wantErr: true},
		{name: "no upper", password: "loja-centro-2026!", wantErr: true},
		{name: "no lower", password: "LOJA-CENTRO-2026!", wantErr: true},
		{name: "no digit", password: "Loja-Centro-Hoje!", wantErr: true},
		{name: "no symbol", password: "LojaCentro2026ab", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePasswordPolicy(tc.password)
			if tc.wantErr && err == nil {
				t.Fatalf("expected error for %q", tc.password)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error for %q: %v", tc.password, err)
			}
		})
	}
}

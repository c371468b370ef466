package bridge

import (
	"errors"
	"testing"

	bridgeerrors "github.com/mirrorlink/bridge/errors"
)

func TestOriginOf(t *testing.T) {
	tests := []struct {
		name    string
		id      int64
		want    Origin
		wantErr bool
	}{
		{"zero is guest", 0, OriginGuest, false},
		{"last guest value", MinHostIdentifier - 1, OriginGuest, false},
		{"host floor", MinHostIdentifier, OriginHost, false},
		{"large host value", 1 << 40, OriginHost, false},
		{"negative is invalid", -1, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := OriginOf(tt.id)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected protocol violation")
				}
				return
			}
			if err != nil {
				t.Fatalf("OriginOf(%d) failed: %v", tt.id, err)
			}
			if got != tt.want {
				t.Fatalf("OriginOf(%d) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(5, OriginGuest); err != nil {
		t.Fatalf("guest identifier 5 should validate: %v", err)
	}
	if err := Validate(MinHostIdentifier, OriginHost); err != nil {
		t.Fatalf("host identifier should validate: %v", err)
	}

	err := Validate(5, OriginHost)
	if err == nil {
		t.Fatal("guest-range identifier must not validate as host-created")
	}
	if !errors.Is(err, &bridgeerrors.Error{Phase: bridgeerrors.PhaseProtocol, Kind: bridgeerrors.KindOutOfRange}) {
		t.Fatalf("expected out_of_range, got %v", err)
	}

	if err := Validate(MinHostIdentifier, OriginGuest); err == nil {
		t.Fatal("host-range identifier must not validate as guest-created")
	}
	if err := Validate(-3, OriginGuest); err == nil {
		t.Fatal("negative identifier must not validate")
	}
}

func TestOrigin_String(t *testing.T) {
	if OriginGuest.String() != "guest" || OriginHost.String() != "host" {
		t.Fatal("unexpected origin names")
	}
	if Origin(9).String() != "unknown" {
		t.Fatal("unexpected name for invalid origin")
	}
}

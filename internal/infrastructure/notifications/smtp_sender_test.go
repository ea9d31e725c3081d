package notifications

import (
	"strings"
	"testing"

	"github.com/openlots/parking-reservation/pkg/config"
)

func TestNewSMTPSender(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.SMTPConfig
		wantErr bool
	}{
		{
			name:    "Valid configuration",
			cfg:     config.SMTPConfig{Host: "smtp.example.com", Port: 587, From: "noreply@example.com", Password: "secret"},
			wantErr: false,
		},
		{
			name:    "Missing from address",
			cfg:     config.SMTPConfig{Host: "smtp.example.com", Port: 587},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender, err := NewSMTPSender(&tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewSMTPSender() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && sender == nil {
				t.Error("NewSMTPSender() returned nil sender")
			}
		})
	}
}

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage("noreply@example.com", "driver@example.com", "Upcoming Parking Reservation", "Hi Ana,\n\nSee you soon."))

	for _, want := range []string{
		"From: noreply@example.com\r\n",
		"To: driver@example.com\r\n",
		"Subject: Upcoming Parking Reservation\r\n",
		"Content-Type: text/plain",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("buildMessage() missing %q", want)
		}
	}

	if !strings.HasSuffix(msg, "Hi Ana,\n\nSee you soon.") {
		t.Errorf("buildMessage() body mangled: %q", msg)
	}
}

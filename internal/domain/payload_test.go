package domain

import (
	"testing"
)

func TestClassifyPayload(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		kind   PayloadKind
		fields map[string]string
	}{
		{
			name: "url",
			text: "https://example.com",
			kind: PayloadURL,
		},
		{
			name: "plain text",
			text: "hello",
			kind: PayloadText,
		},
		{
			name: "wifi",
			text: "WIFI:S:home;T:WPA;P:secret;;",
			kind: PayloadWiFi,
			fields: map[string]string{
				"ssid":     "home",
				"security": "WPA",
				"password": "secret",
			},
		},
		{
			name: "wifi without password",
			text: "WIFI:S:cafe;T:nopass;;",
			kind: PayloadWiFi,
			fields: map[string]string{
				"ssid":     "cafe",
				"security": "nopass",
				"password": "",
			},
		},
		{
			name: "vcard",
			text: VCardPayload("Ivan Petrov", "+7 900 000", "ivan@example.com"),
			kind: PayloadContact,
			fields: map[string]string{
				"name":  "Ivan Petrov",
				"tel":   "+7 900 000",
				"email": "ivan@example.com",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ClassifyPayload(tt.text)
			if p.Kind != tt.kind {
				t.Errorf("Kind = %q, want %q", p.Kind, tt.kind)
			}
			if p.Raw != tt.text {
				t.Errorf("Raw = %q, want %q", p.Raw, tt.text)
			}
			for k, want := range tt.fields {
				if got := p.Fields[k]; got != want {
					t.Errorf("Fields[%q] = %q, want %q", k, got, want)
				}
			}
		})
	}
}

func TestWiFiPayload(t *testing.T) {
	if got, want := WiFiPayload("home", "", "pw"), "WIFI:S:home;T:WPA;P:pw;;"; got != want {
		t.Errorf("WiFiPayload() = %q, want %q", got, want)
	}
	if got, want := WiFiPayload("home", "WEP", "pw"), "WIFI:S:home;T:WEP;P:pw;;"; got != want {
		t.Errorf("WiFiPayload() = %q, want %q", got, want)
	}
}

package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// PayloadKind тип содержимого QR-кода
type PayloadKind string

const (
	PayloadText    PayloadKind = "text"
	PayloadURL     PayloadKind = "url"
	PayloadWiFi    PayloadKind = "wifi"
	PayloadContact PayloadKind = "contact"
)

// Payload разобранное содержимое QR-кода.
// Fields заполняется для wifi (ssid, security, password) и contact (name, tel, email).
type Payload struct {
	Kind   PayloadKind       `json:"kind"`
	Raw    string            `json:"raw"`
	Fields map[string]string `json:"fields,omitempty"`
}

var (
	wifiSSID     = regexp.MustCompile(`S:([^;]+);`)
	wifiSecurity = regexp.MustCompile(`T:([^;]*);`)
	wifiPassword = regexp.MustCompile(`P:([^;]+);`)

	vcardName  = regexp.MustCompile(`FN:([^\r\n]+)`)
	vcardTel   = regexp.MustCompile(`TEL[^:\r\n]*:([^\r\n]+)`)
	vcardEmail = regexp.MustCompile(`EMAIL[^:\r\n]*:([^\r\n]+)`)
)

// ClassifyPayload определяет тип содержимого и извлекает поля
func ClassifyPayload(text string) Payload {
	p := Payload{Kind: PayloadText, Raw: text}

	switch {
	case strings.HasPrefix(text, "http"):
		p.Kind = PayloadURL
	case strings.HasPrefix(text, "WIFI:"):
		p.Kind = PayloadWiFi
		p.Fields = map[string]string{
			"ssid":     firstGroup(wifiSSID, text),
			"security": firstGroup(wifiSecurity, text),
			"password": firstGroup(wifiPassword, text),
		}
	case strings.Contains(text, "BEGIN:VCARD"):
		p.Kind = PayloadContact
		p.Fields = map[string]string{
			"name":  firstGroup(vcardName, text),
			"tel":   firstGroup(vcardTel, text),
			"email": firstGroup(vcardEmail, text),
		}
	}
	return p
}

func firstGroup(re *regexp.Regexp, s string) string {
	if m := re.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// WiFiPayload собирает строку подключения к Wi-Fi
func WiFiPayload(ssid, security, password string) string {
	if security == "" {
		security = "WPA"
	}
	return fmt.Sprintf("WIFI:S:%s;T:%s;P:%s;;", ssid, security, password)
}

// VCardPayload собирает визитку vCard 3.0
func VCardPayload(name, tel, email string) string {
	return fmt.Sprintf("BEGIN:VCARD\nVERSION:3.0\nFN:%s\nTEL:%s\nEMAIL:%s\nEND:VCARD", name, tel, email)
}

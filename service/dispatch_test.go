package services

import (
	"net/smtp"
	"strings"
	"testing"

	"github.com/agiledragon/gomonkey/v2"
	model "github.com/devanshpratap/KycVault/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestNormalizeWhatsAppNumber(t *testing.T) {
	t.Run("international number", func(t *testing.T) {
		got, err := NormalizeWhatsAppNumber("+14155552671")
		require.NoError(t, err)
		assert.Equal(t, "14155552671", got)
	})

	t.Run("national number uses default region", func(t *testing.T) {
		t.Setenv("PHONE_REGION", "IN")
		got, err := NormalizeWhatsAppNumber("098765 43210")
		require.NoError(t, err)
		assert.Equal(t, "919876543210", got)
	})

	t.Run("too short", func(t *testing.T) {
		_, err := NormalizeWhatsAppNumber("12345")
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := NormalizeWhatsAppNumber("call me maybe")
		assert.Error(t, err)
	})
}

func TestValidateContactPhone(t *testing.T) {
	assert.NoError(t, validateContactPhone(""))
	assert.NoError(t, validateContactPhone("+14155552671"))
	assert.Error(t, validateContactPhone("12345"))
}

func TestBuildDispatchMessage(t *testing.T) {
	dc := &dispatchContext{
		Company:    model.Company{ID: "co-1", Name: "Acme Exports"},
		Definition: model.DocumentDefinition{ID: "doc-gst", Name: "GST Certificate", DocumentType: model.DocumentTypeRenewal},
		Upload: model.UploadRecord{
			ID:               "u1",
			ExtractedDetails: datatypes.JSON(`{"W.I.T": "2024-06-15"}`),
		},
		SignedURL: "https://storage.example/signed/u1",
	}

	msg := buildDispatchMessage(dc)
	assert.Contains(t, msg, "GST Certificate")
	assert.Contains(t, msg, "Acme Exports")
	assert.Contains(t, msg, "https://storage.example/signed/u1")
	assert.Contains(t, msg, "Expires on: 15/06/2024")
}

func TestBuildDispatchMessageNoExpiry(t *testing.T) {
	dc := &dispatchContext{
		Company:    model.Company{Name: "Acme Exports"},
		Definition: model.DocumentDefinition{Name: "PAN Card"},
		Upload:     model.UploadRecord{ID: "u2"},
		SignedURL:  "https://storage.example/signed/u2",
	}
	msg := buildDispatchMessage(dc)
	assert.NotContains(t, msg, "Expires on")
}

func TestSendEmail(t *testing.T) {
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "587")
	t.Setenv("SMTP_FROM", "compliance@example.com")
	t.Setenv("SMTP_PASSWORD", "hunter2")

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	patches := gomonkey.ApplyFunc(smtp.SendMail,
		func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			gotAddr, gotFrom = addr, from
			// Copy slice args: the caller's stack frame is reused once it
			// returns, so retained slice headers would point at dead memory.
			gotTo = append([]string(nil), to...)
			gotMsg = append([]byte(nil), msg...)
			return nil
		})
	defer patches.Reset()

	err := sendEmail("ops@acme.example", "KYC Document: GST Certificate", "<p>hello</p>")
	require.NoError(t, err)
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "compliance@example.com", gotFrom)
	assert.Equal(t, []string{"ops@acme.example"}, gotTo)

	message := string(gotMsg)
	assert.True(t, strings.HasPrefix(message, "Subject: KYC Document: GST Certificate"))
	assert.Contains(t, message, "To: ops@acme.example")
	assert.Contains(t, message, "Content-Type: text/html")
	assert.Contains(t, message, "<p>hello</p>")
}

func TestSendEmailUnconfigured(t *testing.T) {
	t.Setenv("SMTP_HOST", "")
	t.Setenv("SMTP_PORT", "")
	t.Setenv("SMTP_FROM", "")

	err := sendEmail("ops@acme.example", "subject", "body")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "SMTP is not configured")
}

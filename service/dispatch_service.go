package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/smtp"
	"os"
	"strings"
	"time"

	model "github.com/devanshpratap/KycVault/models"
	log "github.com/sirupsen/logrus"
	"github.com/ttacon/libphonenumber"
)

// signedLinkTTL is how long dispatched download links stay valid.
const signedLinkTTL = 24 * time.Hour

// dispatchContext is everything a dispatch message needs about an upload.
type dispatchContext struct {
	Company    model.Company
	Definition model.DocumentDefinition
	Upload     model.UploadRecord
	SignedURL  string
}

func (s *KycService) loadDispatchContext(uploadID string) (*dispatchContext, error) {
	var upload model.UploadRecord
	if err := s.db.First(&upload, "id = ?", uploadID).Error; err != nil {
		log.Printf("[Dispatch] Error fetching upload %s: %v", uploadID, err)
		return nil, fmt.Errorf("failed to fetch upload %s: %w", uploadID, err)
	}
	var company model.Company
	if err := s.db.First(&company, "id = ?", upload.CompanyID).Error; err != nil {
		log.Printf("[Dispatch] Error fetching company %s: %v", upload.CompanyID, err)
		return nil, fmt.Errorf("failed to fetch company %s: %w", upload.CompanyID, err)
	}
	var def model.DocumentDefinition
	if err := s.db.First(&def, "id = ?", upload.DocumentDefinitionID).Error; err != nil {
		log.Printf("[Dispatch] Error fetching definition %s: %v", upload.DocumentDefinitionID, err)
		return nil, fmt.Errorf("failed to fetch document definition %s: %w", upload.DocumentDefinitionID, err)
	}

	signedURL, err := s.GetSignedURL(upload.ID, signedLinkTTL)
	if err != nil {
		return nil, err
	}

	return &dispatchContext{
		Company:    company,
		Definition: def,
		Upload:     upload,
		SignedURL:  signedURL,
	}, nil
}

// buildDispatchMessage renders the plain-text body shared by WhatsApp and the
// email fallback text.
func buildDispatchMessage(dc *dispatchContext) string {
	msg := fmt.Sprintf("KYC document %q for %s.\nDownload (link valid 24h): %s",
		dc.Definition.Name, dc.Company.Name, dc.SignedURL)
	if expiry := ExpiryDateOf(&dc.Upload); expiry != nil {
		msg += fmt.Sprintf("\nExpires on: %s", displayDate(expiry))
	}
	return msg
}

// DispatchEmail emails the upload's signed download link. An empty recipient
// falls back to the company contact address.
func (s *KycService) DispatchEmail(uploadID, to string) error {
	dc, err := s.loadDispatchContext(uploadID)
	if err != nil {
		return err
	}

	if to == "" {
		to = dc.Company.ContactEmail
	}
	if to == "" {
		return fmt.Errorf("company %s has no contact email and no recipient was given", dc.Company.ID)
	}

	subject := fmt.Sprintf("KYC Document: %s", dc.Definition.Name)
	body := fmt.Sprintf(`
	<html>
	<body>
		<h2>%s</h2>
		<p>Dear %s,</p>
		<p>Please find your KYC document below:</p>
		<ul>
			<li><strong>Document:</strong> %s</li>
			<li><strong>Download:</strong> <a href="%s">link</a> (valid for 24 hours)</li>
		</ul>
		<p>Best regards,<br>Compliance Team</p>
	</body>
	</html>
`, dc.Definition.Name, dc.Company.Name, dc.Definition.Name, dc.SignedURL)

	if err := sendEmail(to, subject, body); err != nil {
		log.Printf("[DispatchEmail] Error sending email for upload %s: %v", uploadID, err)
		return err
	}
	log.Printf("[DispatchEmail] Email sent to %s for upload %s", to, uploadID)
	return nil
}

// sendEmail delivers one HTML mail through the configured SMTP relay.
func sendEmail(to, subject, body string) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPort := os.Getenv("SMTP_PORT")
	from := os.Getenv("SMTP_FROM")
	password := os.Getenv("SMTP_PASSWORD")
	if smtpHost == "" || smtpPort == "" || from == "" {
		return fmt.Errorf("SMTP is not configured")
	}

	message := []byte("Subject: " + subject + "\r\n" +
		"From: " + from + "\r\n" +
		"To: " + to + "\r\n" +
		"Content-Type: text/html; charset=UTF-8\r\n\r\n" +
		body)

	auth := smtp.PlainAuth("", from, password, smtpHost)
	if err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, []string{to}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// NormalizeWhatsAppNumber validates a phone number and renders it the way the
// WhatsApp Cloud API expects: E.164 digits without the leading plus.
func NormalizeWhatsAppNumber(raw string) (string, error) {
	parsed, err := libphonenumber.Parse(raw, defaultPhoneRegion())
	if err != nil {
		return "", fmt.Errorf("invalid phone number %q: %w", raw, err)
	}
	if !libphonenumber.IsValidNumber(parsed) {
		return "", fmt.Errorf("phone number %q is not valid", raw)
	}
	return strings.TrimPrefix(libphonenumber.Format(parsed, libphonenumber.E164), "+"), nil
}

// DispatchWhatsApp sends the upload's signed download link as a WhatsApp text
// message through the Cloud API. An empty recipient falls back to the company
// contact phone.
func (s *KycService) DispatchWhatsApp(uploadID, to string) error {
	token := os.Getenv("WHATSAPP_TOKEN")
	phoneID := os.Getenv("WHATSAPP_PHONE_ID")
	if token == "" || phoneID == "" {
		return fmt.Errorf("WhatsApp dispatch is not configured")
	}

	dc, err := s.loadDispatchContext(uploadID)
	if err != nil {
		return err
	}

	if to == "" {
		to = dc.Company.ContactPhone
	}
	if to == "" {
		return fmt.Errorf("company %s has no contact phone and no recipient was given", dc.Company.ID)
	}
	recipient, err := NormalizeWhatsAppNumber(to)
	if err != nil {
		return err
	}

	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"to":                recipient,
		"type":              "text",
		"text": map[string]interface{}{
			"preview_url": true,
			"body":        buildDispatchMessage(dc),
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal WhatsApp payload: %w", err)
	}

	endpoint := fmt.Sprintf("https://graph.facebook.com/v19.0/%s/messages", phoneID)
	req, err := http.NewRequest("POST", endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create WhatsApp request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("WhatsApp request failed: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read WhatsApp response: %w", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(respBytes, &result); err != nil {
		return fmt.Errorf("WhatsApp API error: %s", string(respBytes))
	}
	if apiErr, ok := result["error"].(map[string]interface{}); ok {
		log.Printf("[DispatchWhatsApp] API error for upload %s: %v", uploadID, apiErr)
		return fmt.Errorf("WhatsApp API error: %v", apiErr["message"])
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("WhatsApp API returned status %s", resp.Status)
	}

	log.Printf("[DispatchWhatsApp] Message sent to %s for upload %s", recipient, uploadID)
	return nil
}

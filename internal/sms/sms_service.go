package sms

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SMSProvider is an interface for sending SMS messages
type SMSProvider interface {
	SendSMS(phone, message string) error
}

// Fast2SMSService implements SMSProvider for Fast2SMS (India)
type Fast2SMSService struct {
	APIKey string
	client *http.Client
}

// NewFast2SMSService creates a new Fast2SMS service
func NewFast2SMSService(apiKey string) *Fast2SMSService {
	return &Fast2SMSService{
		APIKey: apiKey,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// SendSMS sends a message via Fast2SMS
func (s *Fast2SMSService) SendSMS(phone, message string) error {
	apiURL := "https://www.fast2sms.com/dev/bulkV2"

	data := url.Values{}
	data.Set("authorization", s.APIKey)
	data.Set("message", message)
	data.Set("language", "english")
	data.Set("route", "q") // Quick route for transactional SMS
	data.Set("numbers", phone)

	req, err := http.NewRequest("POST", apiURL, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create SMS request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("SMS API error (status %d): %s", resp.StatusCode, string(body))
	}

	return nil
}

// MockSMSService is a mock implementation for development (prints the
// message to the console instead of sending it)
type MockSMSService struct{}

// NewMockSMSService creates a new mock SMS service
func NewMockSMSService() *MockSMSService {
	return &MockSMSService{}
}

// SendSMS prints the message to console instead of sending SMS
func (s *MockSMSService) SendSMS(phone, message string) error {
	fmt.Printf("\n========== MOCK SMS ==========\n")
	fmt.Printf("To: %s\n", phone)
	fmt.Printf("Message: %s\n", message)
	fmt.Printf("==============================\n\n")
	return nil
}

package mocks

import "github.com/klap2026/klap/domain"

// MockSMSSender implements domain.SMSSender for testing
type MockSMSSender struct {
	SendSMSFunc func(to, body string) error
	Sent        []string
}

func NewMockSMSSender() *MockSMSSender {
	return &MockSMSSender{}
}

func (m *MockSMSSender) SendSMS(to, body string) error {
	if m.SendSMSFunc != nil {
		return m.SendSMSFunc(to, body)
	}
	m.Sent = append(m.Sent, to)
	return nil
}

var _ domain.SMSSender = (*MockSMSSender)(nil)

package utils

import (
	"fmt"
	"net/smtp"
	"os"
)

type SMTPCfg struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

func loadSMTP() (*SMTPCfg, error) {
	cfg := &SMTPCfg{
		Host: os.Getenv("SMTP_HOST"),
		Port: os.Getenv("SMTP_PORT"),
		User: os.Getenv("SMTP_USER"),
		Pass: os.Getenv("SMTP_PASS"),
		From: os.Getenv("SMTP_FROM"),
	}
	if cfg.Port == "" {
		cfg.Port = "587"
	}
	if cfg.From == "" {
		cfg.From = cfg.User
	}
	if cfg.Host == "" || cfg.User == "" || cfg.Pass == "" {
		return nil, fmt.Errorf("SMTP not configured")
	}
	return cfg, nil
}

// SendEmail delivers a plain-text message through the SMTP server configured
// in the environment.
func SendEmail(to, subject, body string) error {
	cfg, err := loadSMTP()
	if err != nil {
		return err
	}

	addr := cfg.Host + ":" + cfg.Port
	auth := smtp.PlainAuth("", cfg.User, cfg.Pass, cfg.Host)
	msg := []byte("From: \"Sports Ladder\" <" + cfg.From + ">\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n" +
		body + "\r\n")

	return smtp.SendMail(addr, auth, cfg.From, []string{to}, msg)
}

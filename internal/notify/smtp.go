package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"time"
)

// SMTPSender mails run summaries
type SMTPSender struct {
	host     string
	port     int
	user     string
	password string
	from     string
	to       []string
}

// NewSMTPSender creates a new SMTP sender
func NewSMTPSender(host string, port int, user, password, from string, to []string) *SMTPSender {
	return &SMTPSender{
		host:     host,
		port:     port,
		user:     user,
		password: password,
		from:     from,
		to:       to,
	}
}

// Send mails the run summary
func (s *SMTPSender) Send(ctx context.Context, summary *RunSummary) error {
	if len(s.to) == 0 {
		return fmt.Errorf("no recipients configured")
	}

	subject := fmt.Sprintf("[hyperscout] %d trader candidates from %d wallets", summary.RankedCount, summary.WalletCount)
	body := s.buildEmailBody(summary)

	message := fmt.Sprintf("From: %s\r\n", s.from)
	message += fmt.Sprintf("To: %s\r\n", s.to[0])
	message += fmt.Sprintf("Subject: %s\r\n", subject)
	message += "Content-Type: text/plain; charset=UTF-8\r\n"
	message += "\r\n"
	message += body

	auth := smtp.PlainAuth("", s.user, s.password, s.host)
	addr := fmt.Sprintf("%s:%d", s.host, s.port)

	if err := smtp.SendMail(addr, auth, s.from, s.to, []byte(message)); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	return nil
}

func (s *SMTPSender) buildEmailBody(summary *RunSummary) string {
	body := "HYPERSCOUT SCAN SUMMARY\n"
	body += "=======================================\n\n"
	body += fmt.Sprintf("Wallets analyzed:   %d\n", summary.WalletCount)
	body += fmt.Sprintf("Passed filter:      %d\n", summary.RankedCount)
	body += fmt.Sprintf("Hyper scrapers:     %d\n", summary.HyperScraperCount)
	body += fmt.Sprintf("Fetch errors:       %d\n", summary.FetchErrorCount)
	body += fmt.Sprintf("Duration:           %s\n\n", summary.Duration.Round(time.Second))

	if len(summary.Top) > 0 {
		body += "TOP CANDIDATES\n"
		body += "---------------------------------------\n"
		for _, entry := range summary.Top {
			body += fmt.Sprintf("#%-3d %s\n", entry.Rank, entry.Address)
			body += fmt.Sprintf("     Sharpe %.2f | Drawdown %.1f%% | Win rate %.1f%% | Score %.3f | via %s\n",
				entry.Sharpe, entry.Drawdown*100, entry.WinRate*100, entry.Score, entry.Sources)
		}
		body += "\n"
	}

	body += "=======================================\n"
	body += fmt.Sprintf("Environment: %s\n", summary.Environment)
	body += fmt.Sprintf("Generated: %s\n", time.Now().UTC().Format("2006-01-02 15:04:05 UTC"))

	return body
}

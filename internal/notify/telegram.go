package notify

import (
	"fmt"
	"os"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier sends due-phrase reminders to a single chat. It is a
// one-way channel; the trainer itself stays local.
type TelegramNotifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramNotifier builds a notifier from TELEGRAM_BOT_TOKEN and
// TELEGRAM_CHAT_ID.
func NewTelegramNotifier() (*TelegramNotifier, error) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable is not set")
	}
	chatStr := os.Getenv("TELEGRAM_CHAT_ID")
	if chatStr == "" {
		return nil, fmt.Errorf("TELEGRAM_CHAT_ID environment variable is not set")
	}
	chatID, err := strconv.ParseInt(chatStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %v", err)
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram client: %v", err)
	}
	return &TelegramNotifier{api: api, chatID: chatID}, nil
}

// SendReminder posts the due count to the configured chat.
func (n *TelegramNotifier) SendReminder(count int) error {
	text := fmt.Sprintf("You have %d phrase(s) due for review. Run phrasetrainer to start a session.", count)
	_, err := n.api.Send(tgbotapi.NewMessage(n.chatID, text))
	return err
}

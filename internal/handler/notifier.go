package handler

import (
	"reportbot/internal/reminder"

	tele "gopkg.in/telebot.v3"
)

// BotNotifier sends messages that are not replies to an update
type BotNotifier struct {
	bot *tele.Bot
}

// NewBotNotifier creates a notifier sending through bot
func NewBotNotifier(bot *tele.Bot) *BotNotifier {
	return &BotNotifier{bot: bot}
}

// Notify sends text to the chat with the main keyboard
func (n *BotNotifier) Notify(chatID int64, text string) error {
	_, err := n.bot.Send(tele.ChatID(chatID), text, mainMenuMarkup())
	return err
}

// SendReminder sends the daily reminder to the chat
func (n *BotNotifier) SendReminder(chatID int64) error {
	return n.Notify(chatID, reminder.Text)
}

package telegram

import "gopkg.in/telebot.v3"

var (
	btnReanalyze telebot.Btn = telebot.Btn{Unique: "btn_reanalyze"}
	btnCancel    telebot.Btn = telebot.Btn{Text: "❌ Cancel", Unique: "btn_cancel_analyze"}
)

const (
	commonErrorInternal = "An internal error occurred, please try again."

	messageAskSymbol   = "Send the pair you want to analyze (for example: EURUSD, GBPUSD, XAUUSD)."
	messageCancelled   = "✅ Conversation cancelled."
	messageUnknownText = "I don't recognize that command. Use /help to see what I can do."
	messageSuperseded  = "⏭ Superseded by a newer request."
)

func reanalyzeMenu(lastSymbol string) *telebot.ReplyMarkup {
	menu := &telebot.ReplyMarkup{}
	rows := []telebot.Row{}
	if lastSymbol != "" {
		rows = append(rows, menu.Row(menu.Data("🔁 "+lastSymbol, btnReanalyze.Unique, lastSymbol)))
	}
	rows = append(rows, menu.Row(menu.Data(btnCancel.Text, btnCancel.Unique)))
	menu.Inline(rows...)
	return menu
}

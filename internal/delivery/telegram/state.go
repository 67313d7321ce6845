package telegram

const (
	StateIdle = iota // 0

	// /analyze flow
	StateWaitingAnalyzeSymbol = 20
)

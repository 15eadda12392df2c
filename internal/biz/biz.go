package biz

import (
	"github.com/jobradar/telegram-keyword-bot/internal/biz/usecase"
)

// Usecases contains all usecases
type Usecases struct {
	Keyword *usecase.KeywordUsecase
	Match   *usecase.MatchUsecase
	Forward *usecase.ForwardUsecase
}

package bot

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"f1fastestlaps/pkg/dashboard"
)

const pagerPrefix = "pager"

// pagerMarkup returns the previous/next buttons of a laps answer, or nil
// when it fits a single page.
func pagerMarkup(a Answer) *tgbotapi.InlineKeyboardMarkup {
	if a.Pages <= 1 {
		return nil
	}
	var row []tgbotapi.InlineKeyboardButton
	if a.Page > 0 {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("Previous", pagerData(a.Query, a.Page-1)))
	}
	if a.Page < a.Pages-1 {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("Next", pagerData(a.Query, a.Page+1)))
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(row)
	return &markup
}

func pagerData(q dashboard.Query, page int) string {
	return fmt.Sprintf("%s:%d:%d:%s", pagerPrefix, page, q.Year, q.SessionType)
}

func parsePagerData(data string) (dashboard.Query, int, bool) {
	parts := strings.SplitN(data, ":", 4)
	if len(parts) != 4 || parts[0] != pagerPrefix {
		return dashboard.Query{}, 0, false
	}
	page, err := strconv.Atoi(parts[1])
	if err != nil {
		return dashboard.Query{}, 0, false
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return dashboard.Query{}, 0, false
	}
	return dashboard.Query{Year: year, SessionType: parts[3]}, page, true
}

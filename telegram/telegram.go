package telegram

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"ootdapi/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"gorm.io/gorm"
)

var usernames string = os.Getenv("TG_ADMINS") //separated by comma from env

func EscapeMessage(message string) string {
	r := strings.NewReplacer(
		"_", "\\_",
		"*", "\\*",
		"[", "\\[",
		"`", "\\`",
	)
	return r.Replace(message)
}

func isAdmin(userName string) bool {
	for _, admin := range strings.Split(usernames, ",") {
		if admin != "" && admin == userName {
			return true
		}
	}
	return false
}

func statsMessage(db *gorm.DB) string {
	var users, items, outfits int64
	db.Model(&models.UserAccount{}).Count(&users)
	db.Model(&models.WardrobeItem{}).Count(&items)
	db.Model(&models.Outfit{}).Count(&outfits)

	var pendingItems int64
	db.Model(&models.WardrobeItem{}).Where("status = ?", "pending").Count(&pendingItems)

	b := strings.Builder{}
	b.WriteString("```\n")
	b.WriteString(fmt.Sprintf("Users:           %v\n", users))
	b.WriteString(fmt.Sprintf("Wardrobe items:  %v\n", items))
	b.WriteString(fmt.Sprintf("  pending:       %v\n", pendingItems))
	b.WriteString(fmt.Sprintf("Saved outfits:   %v\n", outfits))
	b.WriteString("```")
	return b.String()
}

// RunOpsBot is a small admin bot: closet/outfit counters and a ban
// switch, nothing user facing.
func RunOpsBot(db *gorm.DB) {

	if usernames == "" {
		usernames = "formality8765"
	}
	bot, err := tgbotapi.NewBotAPI(os.Getenv("TG_TOKEN"))
	if err != nil {
		println("Error tg bot init")
		log.Panic(err)
	}
	bot.Debug = true

	log.Printf("Authorized on account %s", bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := bot.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil {
			continue
		}
		log.Printf("[%s] %s", update.Message.From.UserName, update.Message.Text)
		if !isAdmin(update.Message.From.UserName) {
			continue
		}

		switch update.Message.Command() {
		case "start":
			msg := tgbotapi.NewMessage(update.Message.Chat.ID, "Commands:\n`/stats` usage counters\n`/ban <user_id>` toggle ban")
			msg.ParseMode = "markdown"
			bot.Send(msg)
		case "stats":
			msg := tgbotapi.NewMessage(update.Message.Chat.ID, statsMessage(db))
			msg.ParseMode = "markdown"
			bot.Send(msg)
		case "ban":
			parts := strings.Fields(update.Message.Text)
			if len(parts) != 2 {
				bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Usage: /ban <user_id>"))
				continue
			}
			userId, err := strconv.ParseUint(parts[1], 10, 64)
			if err != nil {
				bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Usage: /ban <user_id>"))
				continue
			}
			var user models.UserAccount
			r := db.Limit(1).Find(&user, userId)
			if r.RowsAffected == 0 {
				bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, fmt.Sprintf("User %v not found", userId)))
				continue
			}
			user.Banned = !user.Banned
			db.Save(&user)
			state := "unbanned"
			if user.Banned {
				state = "banned"
			}
			bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, fmt.Sprintf("User %v (%s) is now %s", user.ID, EscapeMessage(user.Email), state)))
		}
	}

}

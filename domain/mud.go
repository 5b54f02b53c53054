package domain

import "time"

// MUDProfile is the viewer's character in the MUD layer. All numbers are
// server-owned; the client only displays them.
type MUDProfile struct {
	ID       string
	Nickname string
	Level    int
	Exp      int
	Coins    int
	Power    int
	GuildID  string
}

// NPC is an arena opponent generated by the server.
type NPC struct {
	ID    string
	Name  string
	Level int
	Power int
	Intro string
}

// BattleResult is the server's resolution of one arena battle.
type BattleResult struct {
	BattleID   string
	Won        bool
	Log        []string
	ExpDelta   int
	CoinsDelta int
	Profile    MUDProfile // Profile after the battle
}

// Bounty is a community task with a coin reward.
type Bounty struct {
	ID       string
	Title    string
	Reward   int
	Accepted bool
	Deadline time.Time
}

// ShopItem is a purchasable item.
type ShopItem struct {
	ID    string
	Name  string
	Price int
	Stock int
}

// Purchase is the server's receipt for a shop purchase.
type Purchase struct {
	ItemID  string
	Coins   int // Wallet balance after the purchase
	Profile MUDProfile
}

// Guild is a group of players.
type Guild struct {
	ID      string
	Name    string
	Members int
	Level   int
	Joined  bool
}

// VoiceQuota is the viewer's remaining voice-input allowance.
type VoiceQuota struct {
	Used    int
	Limit   int
	ResetAt time.Time
}

// Remaining returns the unused allowance, never negative.
func (q VoiceQuota) Remaining() int {
	if q.Used >= q.Limit {
		return 0
	}
	return q.Limit - q.Used
}

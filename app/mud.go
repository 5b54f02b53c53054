package app

import (
	"context"

	"github.com/CrestNiraj12/roadmud/domain"
)

// MUDService exposes the gamified layer. The server is authoritative for
// every numeric outcome.
type MUDService interface {
	// Profile returns the viewer's profile or domain.ErrNoProfile.
	Profile(ctx context.Context) (domain.MUDProfile, error)

	// CreateProfile registers a new character.
	CreateProfile(ctx context.Context, nickname string) (domain.MUDProfile, error)

	// GenerateNPC asks the arena for a new opponent.
	GenerateNPC(ctx context.Context) (domain.NPC, error)

	// Battle fights the given opponent.
	Battle(ctx context.Context, npcID string) (domain.BattleResult, error)

	Bounties(ctx context.Context) ([]domain.Bounty, error)
	AcceptBounty(ctx context.Context, id string) (domain.Bounty, error)

	ShopItems(ctx context.Context) ([]domain.ShopItem, error)
	Purchase(ctx context.Context, itemID string) (domain.Purchase, error)

	Guild(ctx context.Context) (domain.Guild, error)
	JoinGuild(ctx context.Context, id string) (domain.Guild, error)

	VoiceQuota(ctx context.Context) (domain.VoiceQuota, error)
	ConsumeVoiceQuota(ctx context.Context) (domain.VoiceQuota, error)
}

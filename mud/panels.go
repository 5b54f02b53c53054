package mud

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/CrestNiraj12/roadmud/app"
	"github.com/CrestNiraj12/roadmud/domain"
)

// ErrNoOpponent is returned when a battle is started without an opponent.
var ErrNoOpponent = errors.New("no arena opponent")

// ErrEmptyNickname is returned when a profile is created without a name.
var ErrEmptyNickname = errors.New("nickname cannot be empty")

// Profile is the viewer's character sheet.
type Profile struct {
	*Panel[domain.MUDProfile]
	svc app.MUDService
}

// NewProfile creates the profile panel.
func NewProfile(svc app.MUDService, logger *log.Logger) *Profile {
	return &Profile{
		Panel: NewPanel("profile", svc.Profile, logger),
		svc:   svc,
	}
}

// Missing reports whether the last load found no profile.
func (p *Profile) Missing() bool {
	return errors.Is(p.LastError(), domain.ErrNoProfile)
}

// Create registers a character with the given nickname.
func (p *Profile) Create(ctx context.Context, nickname string) error {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return ErrEmptyNickname
	}
	return p.Act(ctx, func(ctx context.Context, _ domain.MUDProfile) (domain.MUDProfile, error) {
		return p.svc.CreateProfile(ctx, nickname)
	})
}

// ArenaState is the arena's current opponent and last battle.
type ArenaState struct {
	Opponent *domain.NPC
	Last     *domain.BattleResult
}

// Arena generates opponents and runs battles.
type Arena struct {
	*Panel[ArenaState]
	svc app.MUDService
}

// NewArena creates the arena panel. Load generates an opponent.
func NewArena(svc app.MUDService, logger *log.Logger) *Arena {
	a := &Arena{svc: svc}
	a.Panel = NewPanel("arena", a.generate, logger)
	return a
}

func (a *Arena) generate(ctx context.Context) (ArenaState, error) {
	npc, err := a.svc.GenerateNPC(ctx)
	if err != nil {
		return ArenaState{}, err
	}
	cur, _ := a.Data()
	return ArenaState{Opponent: &npc, Last: cur.Last}, nil
}

// Fight battles the current opponent. The opponent is used up; Load
// generates the next one.
func (a *Arena) Fight(ctx context.Context) (domain.BattleResult, error) {
	var res domain.BattleResult
	err := a.Act(ctx, func(ctx context.Context, cur ArenaState) (ArenaState, error) {
		if cur.Opponent == nil {
			return cur, ErrNoOpponent
		}
		r, err := a.svc.Battle(ctx, cur.Opponent.ID)
		if err != nil {
			return cur, err
		}
		res = r
		return ArenaState{Last: &r}, nil
	})
	return res, err
}

// Bounties lists community tasks.
type Bounties struct {
	*Panel[[]domain.Bounty]
	svc app.MUDService
}

// NewBounties creates the bounty board.
func NewBounties(svc app.MUDService, logger *log.Logger) *Bounties {
	return &Bounties{
		Panel: NewPanel("bounties", svc.Bounties, logger),
		svc:   svc,
	}
}

// Accept takes on a bounty and swaps in the server's copy of it.
func (b *Bounties) Accept(ctx context.Context, id string) error {
	return b.Act(ctx, func(ctx context.Context, cur []domain.Bounty) ([]domain.Bounty, error) {
		updated, err := b.svc.AcceptBounty(ctx, id)
		if err != nil {
			return cur, err
		}
		out := make([]domain.Bounty, len(cur))
		copy(out, cur)
		for i := range out {
			if out[i].ID == updated.ID {
				out[i] = updated
			}
		}
		return out, nil
	})
}

// ShopState is the shop's stock and the latest receipt.
type ShopState struct {
	Items []domain.ShopItem
	Last  *domain.Purchase
}

// Shop sells items for coins.
type Shop struct {
	*Panel[ShopState]
	svc app.MUDService
}

// NewShop creates the shop panel.
func NewShop(svc app.MUDService, logger *log.Logger) *Shop {
	s := &Shop{svc: svc}
	s.Panel = NewPanel("shop", func(ctx context.Context) (ShopState, error) {
		items, err := svc.ShopItems(ctx)
		if err != nil {
			return ShopState{}, err
		}
		cur, _ := s.Data()
		return ShopState{Items: items, Last: cur.Last}, nil
	}, logger)
	return s
}

// Buy purchases an item, then reloads the stock so counts come from the server.
func (s *Shop) Buy(ctx context.Context, itemID string) (domain.Purchase, error) {
	var receipt domain.Purchase
	err := s.Act(ctx, func(ctx context.Context, cur ShopState) (ShopState, error) {
		p, err := s.svc.Purchase(ctx, itemID)
		if err != nil {
			return cur, err
		}
		receipt = p
		items, err := s.svc.ShopItems(ctx)
		if err != nil {
			// The purchase went through; keep the old list.
			items = cur.Items
		}
		return ShopState{Items: items, Last: &p}, nil
	})
	return receipt, err
}

// Guild is the viewer's guild.
type Guild struct {
	*Panel[domain.Guild]
	svc app.MUDService
}

// NewGuild creates the guild panel.
func NewGuild(svc app.MUDService, logger *log.Logger) *Guild {
	return &Guild{
		Panel: NewPanel("guild", svc.Guild, logger),
		svc:   svc,
	}
}

// Join joins the guild with the given id.
func (g *Guild) Join(ctx context.Context, id string) error {
	return g.Act(ctx, func(ctx context.Context, _ domain.Guild) (domain.Guild, error) {
		return g.svc.JoinGuild(ctx, id)
	})
}

// VoiceQuota tracks the voice-input allowance.
type VoiceQuota struct {
	*Panel[domain.VoiceQuota]
	svc app.MUDService
}

// NewVoiceQuota creates the voice quota panel.
func NewVoiceQuota(svc app.MUDService, logger *log.Logger) *VoiceQuota {
	return &VoiceQuota{
		Panel: NewPanel("voice-quota", svc.VoiceQuota, logger),
		svc:   svc,
	}
}

// Consume spends one voice input and stores the server's new quota.
func (v *VoiceQuota) Consume(ctx context.Context) error {
	return v.Act(ctx, func(ctx context.Context, _ domain.VoiceQuota) (domain.VoiceQuota, error) {
		return v.svc.ConsumeVoiceQuota(ctx)
	})
}

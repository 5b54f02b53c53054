package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/CrestNiraj12/roadmud/domain"
)

// mudService implements app.MUDService over the backend API.
type mudService struct {
	client *Client
}

// NewMUDService creates a MUDService backed by the API.
func NewMUDService(client *Client) *mudService {
	return &mudService{client: client}
}

type wireProfile struct {
	ID       flexString `json:"id"`
	Nickname string     `json:"nickname"`
	Level    int        `json:"level"`
	Exp      int        `json:"exp"`
	Coins    int        `json:"coins"`
	Power    int        `json:"power"`
	GuildID  flexString `json:"guildId"`
}

func (w wireProfile) toDomain() domain.MUDProfile {
	return domain.MUDProfile{
		ID:       string(w.ID),
		Nickname: sanitizeForTerminal(w.Nickname),
		Level:    w.Level,
		Exp:      w.Exp,
		Coins:    w.Coins,
		Power:    w.Power,
		GuildID:  string(w.GuildID),
	}
}

type wireNPC struct {
	ID    flexString `json:"id"`
	Name  string     `json:"name"`
	Level int        `json:"level"`
	Power int        `json:"power"`
	Intro string     `json:"intro"`
}

type wireBounty struct {
	ID       flexString `json:"id"`
	Title    string     `json:"title"`
	Reward   int        `json:"reward"`
	Accepted bool       `json:"accepted"`
	Deadline string     `json:"deadline"`
}

func (w wireBounty) toDomain() domain.Bounty {
	return domain.Bounty{
		ID:       string(w.ID),
		Title:    sanitizeForTerminal(w.Title),
		Reward:   w.Reward,
		Accepted: w.Accepted,
		Deadline: parseTime(w.Deadline),
	}
}

type wireGuild struct {
	ID      flexString `json:"id"`
	Name    string     `json:"name"`
	Members int        `json:"members"`
	Level   int        `json:"level"`
	Joined  bool       `json:"joined"`
}

func (w wireGuild) toDomain() domain.Guild {
	return domain.Guild{
		ID:      string(w.ID),
		Name:    sanitizeForTerminal(w.Name),
		Members: w.Members,
		Level:   w.Level,
		Joined:  w.Joined,
	}
}

type wireQuota struct {
	Used    int    `json:"used"`
	Limit   int    `json:"limit"`
	ResetAt string `json:"resetAt"`
}

func (w wireQuota) toDomain() domain.VoiceQuota {
	return domain.VoiceQuota{Used: w.Used, Limit: w.Limit, ResetAt: parseTime(w.ResetAt)}
}

func (s *mudService) Profile(ctx context.Context) (domain.MUDProfile, error) {
	var resp struct {
		Profile wireProfile `json:"profile"`
	}
	err := s.client.Get(ctx, "/api/mud/profile", &resp)
	if IsStatus(err, http.StatusNotFound) {
		return domain.MUDProfile{}, domain.ErrNoProfile
	}
	if err != nil {
		return domain.MUDProfile{}, fmt.Errorf("fetching profile: %w", err)
	}
	return resp.Profile.toDomain(), nil
}

func (s *mudService) CreateProfile(ctx context.Context, nickname string) (domain.MUDProfile, error) {
	req := struct {
		Nickname string `json:"nickname"`
	}{Nickname: nickname}
	var resp struct {
		Profile wireProfile `json:"profile"`
	}
	if err := s.client.Post(ctx, "/api/mud/profile", req, &resp); err != nil {
		return domain.MUDProfile{}, fmt.Errorf("creating profile: %w", err)
	}
	return resp.Profile.toDomain(), nil
}

func (s *mudService) GenerateNPC(ctx context.Context) (domain.NPC, error) {
	var resp struct {
		NPC wireNPC `json:"npc"`
	}
	if err := s.client.Post(ctx, "/api/mud/arena/npc", struct{}{}, &resp); err != nil {
		return domain.NPC{}, fmt.Errorf("generating npc: %w", err)
	}
	n := resp.NPC
	return domain.NPC{
		ID:    string(n.ID),
		Name:  sanitizeForTerminal(n.Name),
		Level: n.Level,
		Power: n.Power,
		Intro: sanitizeForTerminal(n.Intro),
	}, nil
}

func (s *mudService) Battle(ctx context.Context, npcID string) (domain.BattleResult, error) {
	req := struct {
		NPCID string `json:"npcId"`
	}{NPCID: npcID}
	var resp struct {
		BattleID   flexString  `json:"battleId"`
		Won        bool        `json:"won"`
		Log        []string    `json:"log"`
		ExpDelta   int         `json:"expDelta"`
		CoinsDelta int         `json:"coinsDelta"`
		Profile    wireProfile `json:"profile"`
	}
	if err := s.client.Post(ctx, "/api/mud/battles", req, &resp); err != nil {
		return domain.BattleResult{}, fmt.Errorf("running battle: %w", err)
	}
	lines := make([]string, 0, len(resp.Log))
	for _, l := range resp.Log {
		lines = append(lines, sanitizeForTerminal(l))
	}
	return domain.BattleResult{
		BattleID:   string(resp.BattleID),
		Won:        resp.Won,
		Log:        lines,
		ExpDelta:   resp.ExpDelta,
		CoinsDelta: resp.CoinsDelta,
		Profile:    resp.Profile.toDomain(),
	}, nil
}

func (s *mudService) Bounties(ctx context.Context) ([]domain.Bounty, error) {
	var resp struct {
		Bounties []wireBounty `json:"bounties"`
	}
	if err := s.client.Get(ctx, "/api/mud/bounties", &resp); err != nil {
		return nil, fmt.Errorf("fetching bounties: %w", err)
	}
	out := make([]domain.Bounty, 0, len(resp.Bounties))
	for _, b := range resp.Bounties {
		out = append(out, b.toDomain())
	}
	return out, nil
}

func (s *mudService) AcceptBounty(ctx context.Context, id string) (domain.Bounty, error) {
	var resp struct {
		Bounty wireBounty `json:"bounty"`
	}
	if err := s.client.Post(ctx, "/api/mud/bounties/"+url.PathEscape(id)+"/accept", struct{}{}, &resp); err != nil {
		return domain.Bounty{}, fmt.Errorf("accepting bounty: %w", err)
	}
	return resp.Bounty.toDomain(), nil
}

func (s *mudService) ShopItems(ctx context.Context) ([]domain.ShopItem, error) {
	var resp struct {
		Items []struct {
			ID    flexString `json:"id"`
			Name  string     `json:"name"`
			Price int        `json:"price"`
			Stock int        `json:"stock"`
		} `json:"items"`
	}
	if err := s.client.Get(ctx, "/api/mud/shop", &resp); err != nil {
		return nil, fmt.Errorf("fetching shop: %w", err)
	}
	out := make([]domain.ShopItem, 0, len(resp.Items))
	for _, it := range resp.Items {
		out = append(out, domain.ShopItem{
			ID:    string(it.ID),
			Name:  sanitizeForTerminal(it.Name),
			Price: it.Price,
			Stock: it.Stock,
		})
	}
	return out, nil
}

func (s *mudService) Purchase(ctx context.Context, itemID string) (domain.Purchase, error) {
	req := struct {
		ItemID string `json:"itemId"`
	}{ItemID: itemID}
	var resp struct {
		ItemID  flexString  `json:"itemId"`
		Coins   int         `json:"coins"`
		Profile wireProfile `json:"profile"`
	}
	if err := s.client.Post(ctx, "/api/mud/shop/purchase", req, &resp); err != nil {
		return domain.Purchase{}, fmt.Errorf("purchasing item: %w", err)
	}
	return domain.Purchase{
		ItemID:  string(resp.ItemID),
		Coins:   resp.Coins,
		Profile: resp.Profile.toDomain(),
	}, nil
}

func (s *mudService) Guild(ctx context.Context) (domain.Guild, error) {
	var resp struct {
		Guild wireGuild `json:"guild"`
	}
	if err := s.client.Get(ctx, "/api/mud/guild", &resp); err != nil {
		return domain.Guild{}, fmt.Errorf("fetching guild: %w", err)
	}
	return resp.Guild.toDomain(), nil
}

func (s *mudService) JoinGuild(ctx context.Context, id string) (domain.Guild, error) {
	req := struct {
		GuildID string `json:"guildId"`
	}{GuildID: id}
	var resp struct {
		Guild wireGuild `json:"guild"`
	}
	if err := s.client.Post(ctx, "/api/mud/guild/join", req, &resp); err != nil {
		return domain.Guild{}, fmt.Errorf("joining guild: %w", err)
	}
	return resp.Guild.toDomain(), nil
}

func (s *mudService) VoiceQuota(ctx context.Context) (domain.VoiceQuota, error) {
	var resp struct {
		Quota wireQuota `json:"quota"`
	}
	if err := s.client.Get(ctx, "/api/mud/voice-quota", &resp); err != nil {
		return domain.VoiceQuota{}, fmt.Errorf("fetching voice quota: %w", err)
	}
	return resp.Quota.toDomain(), nil
}

func (s *mudService) ConsumeVoiceQuota(ctx context.Context) (domain.VoiceQuota, error) {
	var resp struct {
		Quota wireQuota `json:"quota"`
	}
	if err := s.client.Post(ctx, "/api/mud/voice-quota/consume", struct{}{}, &resp); err != nil {
		return domain.VoiceQuota{}, fmt.Errorf("consuming voice quota: %w", err)
	}
	return resp.Quota.toDomain(), nil
}

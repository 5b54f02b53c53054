package mud

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/roadmud/domain"
	"github.com/CrestNiraj12/roadmud/feedsync"
)

type stubCommunity struct {
	mu      sync.Mutex
	toggles []string
}

func (s *stubCommunity) FetchPosts(_ context.Context, page, limit int, filter domain.Filter) (domain.PostPage, error) {
	posts := make([]domain.RawPost, min(limit, 3))
	for i := range posts {
		posts[i] = domain.RawPost{
			ID:         fmt.Sprintf("%s-%d-%d", filter, page, i),
			AuthorName: "侠客",
			Title:      fmt.Sprintf("江湖事 %d", i),
			Tag:        string(filter),
		}
	}
	return domain.PostPage{Posts: posts, TotalPages: 1}, nil
}

func (s *stubCommunity) FetchPost(_ context.Context, id string) (domain.RawPost, error) {
	return domain.RawPost{ID: id}, nil
}

func (s *stubCommunity) FetchThread(context.Context, string) ([]domain.RawPost, error) {
	return nil, nil
}

func (s *stubCommunity) FetchInteraction(context.Context, string) (*domain.InteractionStatus, error) {
	return nil, nil
}

func (s *stubCommunity) ToggleInteraction(_ context.Context, id string, kind domain.InteractionKind) (domain.InteractionAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toggles = append(s.toggles, id+":"+string(kind))
	return domain.ActionCreated, nil
}

func (s *stubCommunity) CreatePost(context.Context, string, string) (domain.RawPost, error) {
	return domain.RawPost{}, nil
}

type stubGame struct {
	mu      sync.Mutex
	profile *domain.MUDProfile
	npcs    int
	items   []domain.ShopItem
	coins   int
	quota   domain.VoiceQuota
	guild   domain.Guild
}

func (s *stubGame) Profile(context.Context) (domain.MUDProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return domain.MUDProfile{}, domain.ErrNoProfile
	}
	return *s.profile, nil
}

func (s *stubGame) CreateProfile(_ context.Context, nickname string) (domain.MUDProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = &domain.MUDProfile{ID: "p1", Nickname: nickname, Level: 1, Coins: 100}
	return *s.profile, nil
}

func (s *stubGame) GenerateNPC(context.Context) (domain.NPC, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.npcs++
	return domain.NPC{ID: fmt.Sprintf("npc-%d", s.npcs), Name: "山贼", Level: s.npcs, Power: 10}, nil
}

func (s *stubGame) Battle(_ context.Context, npcID string) (domain.BattleResult, error) {
	return domain.BattleResult{
		BattleID:   "b-" + npcID,
		Won:        true,
		Log:        []string{"你先出手", "山贼倒地"},
		ExpDelta:   10,
		CoinsDelta: 5,
		Profile:    domain.MUDProfile{ID: "p1", Nickname: "车神", Level: 2, Coins: 105},
	}, nil
}

func (s *stubGame) Bounties(context.Context) ([]domain.Bounty, error) {
	return []domain.Bounty{{ID: "1", Title: "送药", Reward: 20}}, nil
}

func (s *stubGame) AcceptBounty(_ context.Context, id string) (domain.Bounty, error) {
	return domain.Bounty{ID: id, Title: "送药", Reward: 20, Accepted: true}, nil
}

func (s *stubGame) ShopItems(context.Context) ([]domain.ShopItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.ShopItem(nil), s.items...), nil
}

func (s *stubGame) Purchase(_ context.Context, itemID string) (domain.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == itemID {
			s.items[i].Stock--
			s.coins -= s.items[i].Price
		}
	}
	return domain.Purchase{ItemID: itemID, Coins: s.coins, Profile: domain.MUDProfile{ID: "p1", Nickname: "车神", Coins: s.coins}}, nil
}

func (s *stubGame) Guild(context.Context) (domain.Guild, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.guild, nil
}

func (s *stubGame) JoinGuild(_ context.Context, id string) (domain.Guild, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.guild.Joined = true
	s.guild.Members++
	return s.guild, nil
}

func (s *stubGame) VoiceQuota(context.Context) (domain.VoiceQuota, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quota, nil
}

func (s *stubGame) ConsumeVoiceQuota(context.Context) (domain.VoiceQuota, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quota.Used++
	return s.quota, nil
}

func newTestModel(game *stubGame) (Model, *stubCommunity) {
	community := &stubCommunity{}
	toggles := feedsync.NewInteractions(community)
	return New(community, game, toggles, nil), community
}

// drain runs cmd and every command it produces, feeding the messages back
// into m. Spinner ticks are dropped so the loop ends.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 100 {
			t.Fatalf("command loop did not settle")
		}
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		switch msg := msg.(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
			continue
		case spinner.TickMsg, nil:
			continue
		}
		var next tea.Cmd
		m, next = m.Update(msg)
		queue = append(queue, next)
	}
	return m
}

func press(t *testing.T, m Model, k tea.KeyMsg) Model {
	t.Helper()
	m, cmd := m.Update(k)
	return drain(t, m, cmd)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyLeft  = tea.KeyMsg{Type: tea.KeyLeft}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
)

package bot

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

type BotIdentity struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Personality string `json:"personality"`
	AvatarIndex int    `json:"avatar_index"`
}

var defaultIdentities = []BotIdentity{
	{UserID: "bot-hazel", Username: "hazel", DisplayName: "Hazel", Personality: "friendly, competitive, sooky", AvatarIndex: 1},
	{UserID: "bot-delilah", Username: "delilah", DisplayName: "Delilah", Personality: "analytical, chatty, calm", AvatarIndex: 2},
	{UserID: "bot-blake", Username: "blake", DisplayName: "Blake", Personality: "impatient, over confident, loud", AvatarIndex: 3},
}

var (
	botIdentities []BotIdentity
	botIDMap      map[string]BotIdentity
	identityMu    sync.RWMutex
	loadOnce      sync.Once
	loadErr       error
)

func init() {
	setIdentities(defaultIdentities)
}

// LoadIdentities replaces the default bot profiles with those in a JSON file.
// Only the first call reads the file.
func LoadIdentities(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read bot identities: %w", err)
			return
		}

		var identities []BotIdentity
		if err := json.Unmarshal(data, &identities); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal bot identities: %w", err)
			return
		}
		for _, identity := range identities {
			if identity.UserID == "" {
				loadErr = fmt.Errorf("bot identity %q has no user_id", identity.DisplayName)
				return
			}
		}
		if len(identities) == 0 {
			loadErr = fmt.Errorf("bot identities file %s is empty", path)
			return
		}
		setIdentities(identities)
	})
	return loadErr
}

// RenameIdentities overrides display names in pool order; extra names are ignored.
func RenameIdentities(names []string) {
	identityMu.Lock()
	defer identityMu.Unlock()
	for i := range botIdentities {
		if i < len(names) && names[i] != "" {
			botIdentities[i].DisplayName = names[i]
			botIDMap[botIdentities[i].UserID] = botIdentities[i]
		}
	}
}

func setIdentities(identities []BotIdentity) {
	identityMu.Lock()
	defer identityMu.Unlock()
	botIdentities = append([]BotIdentity(nil), identities...)
	botIDMap = make(map[string]BotIdentity, len(identities))
	for _, identity := range botIdentities {
		botIDMap[identity.UserID] = identity
	}
}

// GetBotIdentity returns an identity for a bot by index (mod pool size).
func GetBotIdentity(index int) BotIdentity {
	identityMu.RLock()
	defer identityMu.RUnlock()
	return botIdentities[index%len(botIdentities)]
}

// GetBotDisplayName returns the display name for a bot ID, or an empty string if not a bot.
func GetBotDisplayName(userID string) string {
	identityMu.RLock()
	defer identityMu.RUnlock()
	identity, ok := botIDMap[userID]
	if !ok {
		return ""
	}
	if identity.DisplayName == "" {
		return identity.Username
	}
	return identity.DisplayName
}

// IsBot reports whether the given user ID belongs to the bot pool.
func IsBot(userID string) bool {
	identityMu.RLock()
	defer identityMu.RUnlock()
	_, ok := botIDMap[userID]
	return ok
}

// Roster returns n identities with distinct user ids, cycling the pool when it is short.
func Roster(n int) []BotIdentity {
	out := make([]BotIdentity, n)
	for i := range out {
		identity := GetBotIdentity(i)
		if lap := i / poolSize(); lap > 0 {
			identity.UserID = fmt.Sprintf("%s-%d", identity.UserID, lap+1)
		}
		out[i] = identity
	}
	return out
}

func poolSize() int {
	identityMu.RLock()
	defer identityMu.RUnlock()
	return len(botIdentities)
}

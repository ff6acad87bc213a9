package rewards

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/chris/loyalty-points/pkg/api"
	"github.com/chris/loyalty-points/pkg/ledger"
	"github.com/chris/loyalty-points/pkg/models"
	"github.com/chris/loyalty-points/pkg/registry"
	"github.com/chris/loyalty-points/pkg/rewards"
	"github.com/go-chi/chi/v5"
)

// RewardsHandler serves the mini-game endpoints. Every payout flows through
// the ledger like any other transaction.
type RewardsHandler struct {
	Ledger *ledger.Service
	Users  registry.Registry
	Dart   *rewards.Dart
	Rng    rewards.Source
	Now    func() time.Time
}

// NewRewardsHandler creates a new RewardsHandler.
func NewRewardsHandler(svc *ledger.Service, users registry.Registry, dart *rewards.Dart, rng rewards.Source) *RewardsHandler {
	if dart == nil {
		dart = rewards.NewDart()
	}
	return &RewardsHandler{
		Ledger: svc,
		Users:  users,
		Dart:   dart,
		Rng:    rng,
		Now:    time.Now,
	}
}

// Routes mounts the mini-game endpoints.
func (h *RewardsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/balloon/{userId}", h.PlayBalloon)
	r.Post("/dart/{userId}", h.ThrowDart)
	r.Post("/scratch/{userId}", h.Scratch)
	return r
}

// PlayBalloon pops a balloon and credits the reward as a system transaction.
func (h *RewardsHandler) PlayBalloon(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	reward := rewards.BalloonReward(h.Rng)
	h.grant(w, r, userID, reward, "balloon", "Balloon game reward", false)
}

// ThrowDart scores a dart throw against the current target position and
// credits the tier reward as a system transaction.
func (h *RewardsHandler) ThrowDart(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	var req api.DartThrowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	reward := h.Dart.Throw(req.Position, h.Now())
	h.grant(w, r, userID, reward, "dart", "Dart game reward", false)
}

// Scratch reveals a VIP scratch card. Only VIP users (level >= 1) may play;
// the reward scales with the level and is credited as a vip transaction.
func (h *RewardsHandler) Scratch(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	user, err := h.Users.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, registry.ErrUserNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Failed to load user: %v", err), http.StatusInternalServerError)
		return
	}

	reward, err := rewards.ScratchReward(h.Rng, user.VipLevel)
	if err != nil {
		http.Error(w, "Scratch cards are exclusive to VIP members", http.StatusForbidden)
		return
	}

	h.grant(w, r, userID, reward, "scratch", fmt.Sprintf("VIP level %d scratch card reward", user.VipLevel), true)
}

func (h *RewardsHandler) grant(w http.ResponseWriter, r *http.Request, userID string, reward int64, game, description string, vip bool) {
	var tx *models.Transaction
	var err error
	if vip {
		tx, err = h.Ledger.GrantVip(r.Context(), userID, reward, description)
	} else {
		tx, err = h.Ledger.GrantSystem(r.Context(), userID, reward, description)
	}
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to credit reward: %v", err), http.StatusInternalServerError)
		return
	}

	balance, err := h.Ledger.Balance(r.Context(), userID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to read balance: %v", err), http.StatusInternalServerError)
		return
	}

	result := api.RewardResult{
		Game:        game,
		Reward:      reward,
		NewBalance:  balance,
		Description: tx.Description,
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

package controllers

import (
	"commitblock/internal/hostsfile"
	"commitblock/internal/interfaces"
	"commitblock/internal/models"
	"commitblock/internal/providers"
	"errors"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"
)

const maxRequestBodySize = 1 << 20 // 1 MB

const (
	cacheKeyStatus = "status"
	cacheKeyHosts  = "hosts"
)

type hostsPayload struct {
	Hosts []string `json:"hosts"`
}

type ApiController struct {
	logger providers.Logger
	hosts  interfaces.BlockManagerInterface
	state  interfaces.StateStoreInterface
	goals  interfaces.GoalStoreInterface
	engine interfaces.EngineInterface
	cache  providers.CacheProviderInterface
}

func NewApiController(logger providers.Logger, hosts interfaces.BlockManagerInterface, state interfaces.StateStoreInterface, goals interfaces.GoalStoreInterface, engine interfaces.EngineInterface, cache providers.CacheProviderInterface) *ApiController {
	return &ApiController{
		logger: logger,
		hosts:  hosts,
		state:  state,
		goals:  goals,
		engine: engine,
		cache:  cache,
	}
}

func writeJSON(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		writeJSON(w, data)
		return
	}

	result, err := compute()
	if err != nil {
		ac.logger.Errorf(providers.TypeGet, "Serving %s failed: %s", cacheKey, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)
	writeJSON(w, gson)
}

func (ac *ApiController) GetStatus(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, cacheKeyStatus, func() (any, error) {
		goal, err := ac.goals.Load()
		if err != nil {
			return nil, err
		}
		hosts, err := ac.hosts.Load()
		if err != nil {
			return nil, err
		}
		mode, err := ac.hosts.Mode()
		if err != nil {
			return nil, err
		}
		status := ac.state.Load()
		return models.Status{
			Username: goal.GithubUsername,
			Goal:     goal.ContributionGoal,
			Progress: ac.engine.Progress(),
			MetDate:  status.MetDate,
			MetGoal:  status.MetGoal,
			Mode:     mode.String(),
			Hosts:    len(hosts),
		}, nil
	})
}

func (ac *ApiController) GetHosts(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, cacheKeyHosts, func() (any, error) {
		hosts, err := ac.hosts.Load()
		if err != nil {
			return nil, err
		}
		return hostsPayload{Hosts: hosts}, nil
	})
}

// PutHosts replaces the managed host list and schedules a fresh cycle.
func (ac *ApiController) PutHosts(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload hostsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	hosts := make([]string, 0, len(payload.Hosts))
	for _, raw := range payload.Hosts {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		host, err := hostsfile.NormalizeHost(raw)
		if err != nil {
			ac.logger.Debugf(providers.TypePost, "Rejected host: %s", err)
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		hosts = append(hosts, host)
	}

	if err := ac.hosts.Replace(hosts); err != nil {
		if errors.Is(err, hostsfile.ErrInvalidHost) {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		ac.logger.Errorf(providers.TypePost, "Replacing hosts failed: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	ac.cache.Del(cacheKeyHosts)
	ac.cache.Del(cacheKeyStatus)
	ac.engine.Trigger()

	w.WriteHeader(http.StatusNoContent)
}

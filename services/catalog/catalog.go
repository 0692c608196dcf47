// Package catalog loads a company's branches and services and renders them for the system prompt.
package catalog

import (
	"context"
	"sync"

	"github.com/Adriel2503/agente-reserva/models"
	"go.uber.org/zap"
)

const DefaultLimit = 10

// Source is the part of the information service the catalogue reads.
type Source interface {
	FetchBranches(ctx context.Context, companyID int) ([]models.Branch, error)
	FetchCatalog(ctx context.Context, companyID, limit int) ([]models.Product, error)
}

// Texts are the two prompt sections the catalogue produces.
type Texts struct {
	Branches string
	Services string
}

// Service fetches and formats catalogue data. Failures never propagate; they
// turn into the "not loaded" texts.
type Service struct {
	Source Source
	Limit  int
	Logger *zap.Logger
}

// Branches returns the formatted branch list or NoBranchesText.
func (s *Service) Branches(ctx context.Context, companyID int) string {
	branches, err := s.Source.FetchBranches(ctx, companyID)
	if err != nil {
		s.logger().Warn("Could not load branches", zap.Int("companyID", companyID), zap.Error(err))
		return NoBranchesText
	}
	return FormatBranches(branches)
}

// Services returns the formatted service list or NoServicesText.
func (s *Service) Services(ctx context.Context, companyID int) string {
	limit := s.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	products, err := s.Source.FetchCatalog(ctx, companyID, limit)
	if err != nil {
		s.logger().Warn("Could not load services", zap.Int("companyID", companyID), zap.Error(err))
		return NoServicesText
	}
	return FormatProducts(products)
}

// Load fetches branches and services concurrently. Each half falls back to its
// own placeholder text, so one failing call never hides the other.
func (s *Service) Load(ctx context.Context, companyID int) Texts {
	var (
		texts Texts
		wg    sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		texts.Branches = s.Branches(ctx, companyID)
	}()
	go func() {
		defer wg.Done()
		texts.Services = s.Services(ctx, companyID)
	}()
	wg.Wait()
	return texts
}

func (s *Service) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

package storage

import (
	"context"

	"github.com/rl1809/product-inventory/internal/core/domain"
	"github.com/rl1809/product-inventory/internal/port"
)

var _ port.SiteRepository = (*SiteStore)(nil)

// SiteStore answers every lookup with the single configured site, stamped
// with the requested ID.
type SiteStore struct {
	site domain.Site
}

func NewSiteStore(site domain.Site) *SiteStore {
	return &SiteStore{site: site}
}

func (s *SiteStore) GetByID(_ context.Context, siteID int) (domain.Site, error) {
	if siteID < 1 {
		return domain.Site{}, domain.NewNotFoundError("site", siteID)
	}
	site := s.site
	site.SiteID = siteID
	return site, nil
}

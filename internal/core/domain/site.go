package domain

type Site struct {
	SiteID       int    `json:"siteId"`
	SiteName     string `json:"siteName"`
	ContactEmail string `json:"contactEmail"`
	ContactName  string `json:"contactName"`
}

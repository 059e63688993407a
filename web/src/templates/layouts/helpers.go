package layouts

// CalculateTitle joins the page title and the site name.
func CalculateTitle(title, siteName string) string {
	if title != "" {
		return title + " - " + siteName
	}
	return siteName
}

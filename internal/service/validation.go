package service

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/model"
	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/util"
	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/pkg/apierror"
)

const (
	maxNameLength        = 200
	maxDescriptionLength = 2000
)

func requireText(field, value string, max int) (string, error) {
	value = util.CleanText(value, false)
	if value == "" {
		return "", apierror.BadRequest(field+" is required", "")
	}
	if len([]rune(value)) > max {
		return "", apierror.BadRequest(field+" is too long", fmt.Sprintf("max %d characters", max))
	}
	return value, nil
}

// optionalText keeps line breaks; it backs free-form descriptions.
func optionalText(field, value string, max int) (string, error) {
	value = util.CleanText(value, true)
	if len([]rune(value)) > max {
		return "", apierror.BadRequest(field+" is too long", fmt.Sprintf("max %d characters", max))
	}
	return value, nil
}

func validatePriceRange(p int) error {
	if p < 1 || p > 4 {
		return apierror.BadRequest("price_range must be between 1 and 4", fmt.Sprint(p))
	}
	return nil
}

func validateLocation(loc *model.Location) error {
	if loc == nil {
		return nil
	}
	if loc.Latitude < -90 || loc.Latitude > 90 || loc.Longitude < -180 || loc.Longitude > 180 {
		return apierror.BadRequest("location is out of range", fmt.Sprintf("%f,%f", loc.Latitude, loc.Longitude))
	}
	return nil
}

func validateContact(c model.ContactInfo) error {
	if c.Email != "" && !strings.Contains(c.Email, "@") {
		return apierror.BadRequest("contact.email is invalid", c.Email)
	}
	return validateURL("contact.website", c.Website)
}

func validateURL(field, raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return apierror.BadRequest(field+" must be an http(s) url", raw)
	}
	return nil
}

func validatePrice(price int64) error {
	if price < 0 {
		return apierror.BadRequest("price must not be negative", fmt.Sprint(price))
	}
	return nil
}

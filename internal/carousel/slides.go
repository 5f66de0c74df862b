// Package carousel derives the home screen promotional slide list.
package carousel

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Slide ids with behaviour attached to them.
const (
	SlideIDFund               = "fund"
	SlideIDCard               = "card"
	SlideIDBackupAndSync      = "backupAndSync"
	SlideIDBasicFunctionality = "basic_functionality"
	SlideIDSolana             = "solana"
	SlideIDDownloadMobileApp  = "downloadMobileApp"

	zeroBalanceHex = "0x0"
)

// Slide is one carousel card.
type Slide struct {
	ID            string     `json:"id" yaml:"id"`
	Title         string     `json:"title" yaml:"title"`
	Description   string     `json:"description" yaml:"description"`
	Image         string     `json:"image" yaml:"image"`
	Href          string     `json:"href,omitempty" yaml:"href,omitempty"`
	Dismissed     bool       `json:"dismissed" yaml:"dismissed"`
	Undismissable bool       `json:"undismissable" yaml:"undismissable"`
	StartDate     *time.Time `json:"startDate,omitempty" yaml:"startDate,omitempty"`
	EndDate       *time.Time `json:"endDate,omitempty" yaml:"endDate,omitempty"`
}

var (
	basicFunctionalitySlide = Slide{
		ID:          SlideIDBasicFunctionality,
		Title:       "basicConfigurationBannerTitle",
		Description: "enableIt",
		Image:       "./images/basic-functionality.svg",
	}
	solanaSlide = Slide{
		ID:          SlideIDSolana,
		Title:       "slideSolanaTitle",
		Description: "slideSolanaDescription",
		Image:       "./images/slide-solana-icon.svg",
	}
	fundSlide = Slide{
		ID:          SlideIDFund,
		Title:       "slideFundWalletTitle",
		Description: "slideFundWalletDescription",
		Image:       "./images/slide-fund-icon.svg",
		Href:        "https://portfolio.metamask.io/buy/build-quote",
	}
	cardSlide = Slide{
		ID:          SlideIDCard,
		Title:       "slideDebitCardTitle",
		Description: "slideDebitCardDescription",
		Image:       "./images/slide-card-icon.svg",
		Href:        "https://portfolio.metamask.io/card",
	}
	backupAndSyncSlide = Slide{
		ID:          SlideIDBackupAndSync,
		Title:       "backupAndSyncSlideTitle",
		Description: "backupAndSyncSlideDescription",
		Image:       "./images/slide-backup-and-sync-icon.png",
	}
	downloadMobileAppSlide = Slide{
		ID:          SlideIDDownloadMobileApp,
		Title:       "slideDownloadMobileAppTitle",
		Description: "slideDownloadMobileAppDescription",
		Image:       "./images/slide-metamask-icon.svg",
	}
)

// HasZeroBalance reports whether a hex quantity is zero. An empty balance is
// zero; a malformed one is not.
func HasZeroBalance(balance string) bool {
	if balance == "" {
		balance = zeroBalanceHex
	}
	v, err := hexutil.DecodeBig(balance)
	if err != nil {
		// Zero-padded quantities such as 0x00 are rejected as numbers.
		raw, rawErr := hexutil.Decode(balance)
		if rawErr != nil {
			return false
		}
		v = new(big.Int).SetBytes(raw)
	}
	return v.Sign() == 0
}

// DefaultSlides returns the built-in slides. The fund slide leads the list
// and cannot be dismissed while the balance is zero.
func DefaultSlides(zeroBalance, useExternalServices bool) []Slide {
	slides := []Slide{cardSlide, backupAndSyncSlide}
	if !useExternalServices {
		slides = append(slides, basicFunctionalitySlide)
	}
	slides = append(slides, solanaSlide)

	fund := fundSlide
	fund.Undismissable = zeroBalance
	at := 2
	if zeroBalance {
		at = 0
	}
	return append(slides[:at], append([]Slide{fund}, slides[at:]...)...)
}

// IsActive reports whether now falls inside the slide's optional date window.
func IsActive(s Slide, now time.Time) bool {
	if s.StartDate != nil && now.Before(*s.StartDate) {
		return false
	}
	if s.EndDate != nil && now.After(*s.EndDate) {
		return false
	}
	return true
}

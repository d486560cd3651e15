package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/noah-isme/tahfidz-api/internal/models"
)

const notAvailable = "N/A"

// ResolveRange turns a recitation range into display text and numeric bounds.
// It never fails. Missing bounds default to 1 (ayahTo to ayahFrom, endSurah to
// surah) and the text shows the same defaulted numbers; only a range with no
// fields at all renders as "N/A".
func ResolveRange(r *models.RecitationRange) models.ResolvedRange {
	if r == nil || isEmptyRange(r) {
		return models.ResolvedRange{DisplayText: notAvailable, FromSurah: 1, FromAyah: 1, ToSurah: 1, ToAyah: 1}
	}

	fromSurah := intOr(r.Surah, 1)
	fromAyah := intOr(r.AyahFrom, 1)
	toSurah := intOr(r.EndSurah, fromSurah)
	toAyah := intOr(r.AyahTo, fromAyah)

	startName := surahLabel(r.SurahName, fromSurah)
	from := strconv.Itoa(fromAyah)
	to := strconv.Itoa(toAyah)

	var text string
	if fromSurah != toSurah {
		endName := surahLabel(r.EndSurahName, toSurah)
		text = fmt.Sprintf("Surah %s, Ayah %s → Surah %s, Ayah %s", startName, from, endName, to)
	} else {
		text = fmt.Sprintf("Surah %s, Ayah %s-%s", startName, from, to)
	}

	return models.ResolvedRange{
		DisplayText: text,
		FromSurah:   fromSurah,
		FromAyah:    fromAyah,
		ToSurah:     toSurah,
		ToAyah:      toAyah,
	}
}

func isEmptyRange(r *models.RecitationRange) bool {
	return r.Surah == nil && strings.TrimSpace(r.SurahName) == "" &&
		r.AyahFrom == nil && r.AyahTo == nil &&
		r.EndSurah == nil && strings.TrimSpace(r.EndSurahName) == ""
}

func surahLabel(name string, number int) string {
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		return trimmed
	}
	return strconv.Itoa(number)
}

func intOr(v *int, fallback int) int {
	if v == nil || *v <= 0 {
		return fallback
	}
	return *v
}

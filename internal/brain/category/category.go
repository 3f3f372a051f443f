package category

import (
	"strings"

	"brain-service/internal/brain/model"
	"brain-service/internal/brain/normalize"
)

// Форматы упаковки.
const (
	FormatPET   = "PET"
	FormatCan   = "CAN"
	FormatGlass = "GLASS"
)

var (
	energyStrong = []string{
		"ЭНЕРГЕТИК", "ЭНЕРГЕТИЧЕСК", "ENERGY",
		"ТОНИЗИРУЮЩ", "ТОНИЗ",
		"ЭНЕРГ НАП", "ЭНЕРГЕТ НАП",
	}
	// только целым словом
	energyMedium = []string{
		"ЭНЕРГ", "POWER",
		"BOOST", "CAFFEIN", "КОФЕИН",
		"ТАУРИНПЛ", "ТАУРИНСОД", "ТАУРИН",
	}
	energyBrands = []string{
		"TORNADO", "ТОРНАДО", "E-ON", "ЕОН", "EON",
		"MONSTER", "МОНСТЕР", "BURN", "БЕРН",
		"RED BULL", "РЕД БУЛЛ", "ADRENALINE", "АДРЕНАЛИН",
		"FLASH UP", "ФЛЕШ АП", "GORILLA", "ГОРИЛЛА",
		"DRIVE ME", "ДРАЙВ", "LIT ENERGY", "ЛИТ ЭНЕРГ",
		"GENESIS", "ГЕНЕЗИС", "ROCKSTAR", "РОКСТАР",
		"BULLIT", "БУЛЛИТ", "BIZON", "БИЗОН",
		"DYNAMIT", "BLACK MONSTER", "BLACK ENERGY",
		"EFFECT", "ENERGO", "ENERGY CODE", "ENERGY DRAGON",
		"FIZRUK", "ФИЗРУК", "G-DRIVE", "VULKAN", "ВУЛКАН",
		"JAGUAR", "ЯГУАР", "ACTIBO", "HELL",
		"POWERCELL", "POWER TORR", "PULSE UP",
		"SHARK", "STORM", "VOLT",
	}

	sodaStrong = []string{
		"ЛИМОНАД", "ГАЗИРОВКА", "ГАЗИРОВАННЫЙ",
		"ДЮШЕС", "ТАРХУН",
	}
	sodaMedium = []string{
		"ГАЗ", "ГАЗИР", "СИЛЬНОГАЗ", "СИЛ/ГАЗ", "СИЛГАЗ",
		"МОХИТО", "MOJITO", "БАЙКАЛ", "BAIKAL",
	}
	sodaBrands = []string{
		"COCA-COLA", "КОКА-КОЛА", "КОКА КОЛА",
		"PEPSI", "ПЕПСИ", "SPRITE", "СПРАЙТ",
		"FANTA", "ФАНТА", "MIRINDA", "МИРИНДА",
		"FRESH BAR", "ФРЕШ БАР",
		"COLA BY FRESH BAR", "COLA CLASSIC", "COOL COLA",
		"FANTOLA", "ФАНТОЛА", "ROYAL COLA",
		"LAIMON FRESH", "ЛАЙМОН ФРЕШ",
		"SCHWEPPES", "EVERVESS", "7 UP", "MOUNTAIN DEW",
		"ЧЕРНОГОЛОВКА", "ИЛЬИНСКИЕ ЛИМОНАДЫ",
		"CHILLOUT", "CHUPA CHUPS", "ЧУПА ЧУПС",
		"IRN BRU", "ИСТОЧНИК",
	}
)

// Признаки упаковки.
var (
	packPET   = []string{"ПЭТ", "PET", "ПЛ/БУТ", "ПЛАСТИК"}
	packCan   = []string{"Ж/Б", "CAN", "ЖБ", "БАНК", "ЖЕСТЯН"}
	packGlass = []string{"СТЕКЛ", "СТ/Б"}
)

// DetectCategory: ЭНЕРГЕТИКИ, ГАЗИРОВКА или ПРОЧЕЕ.
// brand: подсказка (может быть пустой), бренды ищутся и в ней.
func DetectCategory(text, brand string) string {
	s := normalize.NormalizeCase(text)
	b := normalize.NormalizeCase(brand)

	// 1) Энергетики: сильные слова, бренды, средние слова
	if containsAny(s, energyStrong) {
		return model.CategoryEnergy
	}
	if brandHit(s, b, energyBrands) {
		return model.CategoryEnergy
	}
	for _, kw := range energyMedium {
		if normalize.ContainsWord(s, kw) {
			return model.CategoryEnergy
		}
	}

	// 2) Газировка: бренды, сильные, средние
	if brandHit(s, b, sodaBrands) {
		return model.CategorySoda
	}
	if containsAny(s, sodaStrong) || containsAny(s, sodaMedium) {
		return model.CategorySoda
	}

	return model.CategoryOther
}

// DetectSubcategory уточняет категорию: упаковка, без сахара, вкус.
func DetectSubcategory(text, category string) string {
	s := normalize.NormalizeCase(text)

	switch category {
	case model.CategoryEnergy:
		switch {
		case containsAny(s, packCan):
			return "Энергетические напитки ж/б"
		case containsAny(s, packPET):
			return "Энергетические напитки ПЭТ"
		case containsAny(s, packGlass):
			return "Энергетические напитки стекло"
		}
		return "Энергетические напитки"

	case model.CategorySoda:
		switch {
		case containsAny(s, []string{"КОЛА", "COLA"}):
			if containsAny(s, []string{"ЗЕРО", "ZERO", "БЕЗ САХАР", "ЛАЙТ", "LIGHT", "ДИЕТ"}) {
				return "Кола без сахара"
			}
			return "Кола"
		case strings.Contains(s, "ДЮШЕС"):
			return "Лимонады дюшес"
		case strings.Contains(s, "ТАРХУН"):
			return "Лимонады тархун"
		case containsAny(s, []string{"МОХИТО", "MOJITO"}):
			return "Мохито"
		case containsAny(s, []string{"БАЙКАЛ", "BAIKAL"}):
			return "Лимонады Байкал"
		case containsAny(s, []string{"ЛИМОНАД", "ЛАЙМ", "LIME"}):
			return "Лимонады"
		case containsAny(s, []string{"АПЕЛЬСИН", "ORANGE", "ОРАНЖ"}):
			return "Газированные с апельсином"
		case containsAny(s, []string{"ЛИМОН", "LEMON"}):
			return "Газированные с лимоном"
		}
		return "Газированные напитки"
	}

	switch {
	case containsAny(s, []string{"СОК", "НЕКТАР", "JUICE"}):
		return "Соки и нектары"
	case containsAny(s, []string{"ВОДА", "WATER", "МИНЕРАЛ"}):
		return "Вода"
	case containsAny(s, []string{"КВАС", "KVASS"}):
		return "Квас"
	case containsAny(s, []string{"ЧАЙ", "TEA"}):
		return "Холодный чай"
	case strings.Contains(s, "МОРС"):
		return "Морс"
	}
	return "Прочее"
}

// DetectPackFormat: PET, CAN, GLASS или пусто.
func DetectPackFormat(text string) string {
	s := normalize.NormalizeCase(text)
	switch {
	case containsAny(s, packPET):
		return FormatPET
	case containsAny(s, packCan):
		return FormatCan
	case containsAny(s, packGlass), strings.Contains(s, "GLASS"):
		return FormatGlass
	}
	return ""
}

func containsAny(s string, kws []string) bool {
	for _, kw := range kws {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func brandHit(s, brand string, kws []string) bool {
	for _, kw := range kws {
		if strings.Contains(s, kw) || (brand != "" && strings.Contains(brand, kw)) {
			return true
		}
	}
	return false
}

package category

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"brain-service/internal/brain/model"
)

func TestDetectCategory(t *testing.T) {
	cases := []struct {
		text, brand string
		want        string
	}{
		{"Напиток энергетический 0,5л", "", model.CategoryEnergy},
		{"ТОНИЗ напиток 0,45 ж/б", "", model.CategoryEnergy},
		{"ЭНЕРГ 0,5", "", model.CategoryEnergy},
		{"Лимонад Дюшес 1,5л", "", model.CategorySoda},
		{"Напиток сильногаз 1л", "", model.CategorySoda},
		{"Сок яблочный 1л", "", model.CategoryOther},
		{"", "", model.CategoryOther},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DetectCategory(tc.text, tc.brand), tc.text)
	}
}

func TestDetectCategory_BrandListWithoutKeywords(t *testing.T) {
	assert.Equal(t, model.CategoryEnergy, DetectCategory("Tornado ice 0,5", ""))
	assert.Equal(t, model.CategorySoda, DetectCategory("Фанта 1л", ""))
	// бренд только в подсказке
	assert.Equal(t, model.CategoryEnergy, DetectCategory("XXX 0,45", "monster"))
	assert.Equal(t, model.CategorySoda, DetectCategory("XXX 0,45", "pepsi"))
}

func TestDetectCategory_EnergyBeforeSoda(t *testing.T) {
	// и энергетик, и газировка: побеждает энергетик
	assert.Equal(t, model.CategoryEnergy, DetectCategory("Пепси энергетик 0,5", ""))
}

func TestDetectCategory_MediumKeywordWholeWord(t *testing.T) {
	// ЭНЕРГИЯ не целое слово ЭНЕРГ, BOOST внутри BOOSTER тоже
	assert.Equal(t, model.CategoryOther, DetectCategory("Вода ЭНЕРГИЯ 0,5", ""))
	assert.Equal(t, model.CategoryOther, DetectCategory("BOOSTER 0,5", ""))
}

func TestDetectSubcategory(t *testing.T) {
	cases := []struct {
		text, category, want string
	}{
		{"BURN 0,5 ж/б", model.CategoryEnergy, "Энергетические напитки ж/б"},
		{"BURN 1л ПЭТ", model.CategoryEnergy, "Энергетические напитки ПЭТ"},
		{"BURN 0,33 ст/б", model.CategoryEnergy, "Энергетические напитки стекло"},
		{"BURN", model.CategoryEnergy, "Энергетические напитки"},
		{"Coca-Cola Zero 0,5", model.CategorySoda, "Кола без сахара"},
		{"Кока-Кола 1,5", model.CategorySoda, "Кола"},
		{"Лимонад Дюшес", model.CategorySoda, "Лимонады дюшес"},
		{"Тархун", model.CategorySoda, "Лимонады тархун"},
		{"Фреш бар мохито", model.CategorySoda, "Мохито"},
		{"Байкал 1л", model.CategorySoda, "Лимонады Байкал"},
		{"Лимонад 1л", model.CategorySoda, "Лимонады"},
		{"Фанта апельсин", model.CategorySoda, "Газированные с апельсином"},
		{"Спрайт лимон", model.CategorySoda, "Газированные с лимоном"},
		{"Пепси", model.CategorySoda, "Газированные напитки"},
		{"Сок яблоко", model.CategoryOther, "Соки и нектары"},
		{"Вода питьевая", model.CategoryOther, "Вода"},
		{"Квас хлебный", model.CategoryOther, "Квас"},
		{"Чай холодный", model.CategoryOther, "Холодный чай"},
		{"Морс клюква", model.CategoryOther, "Морс"},
		{"Чипсы", model.CategoryOther, "Прочее"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DetectSubcategory(tc.text, tc.category), tc.text)
	}
}

func TestDetectPackFormat(t *testing.T) {
	assert.Equal(t, FormatPET, DetectPackFormat("Вода 1,5л пл/бут"))
	assert.Equal(t, FormatCan, DetectPackFormat("BURN 0,5л ж/б"))
	assert.Equal(t, FormatGlass, DetectPackFormat("Лимонад 0,33 стекло"))
	assert.Equal(t, FormatGlass, DetectPackFormat("cola glass"))
	assert.Equal(t, "", DetectPackFormat("Квас"))
	assert.Equal(t, "", DetectPackFormat(""))
}

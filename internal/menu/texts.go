package menu

// User-facing strings.
const (
	txtGreeting          = "Привет, %s! Добро пожаловать в наше кафе. Что бы вы хотели посмотреть?"
	txtWelcome           = "Добро пожаловать в наше кафе. Что бы вы хотели посмотреть?"
	txtHelp              = "Используйте /start для начала работы с ботом.\nВы также можете искать напитки, просто отправив их название."
	txtUnknownCommand    = "Неизвестная команда: %s"
	txtDrinkCategories   = "Выберите категорию напитков:"
	txtDessertCategories = "Выберите категорию десертов:"
	txtDrinksIn          = "Напитки в категории \"%s\":"
	txtDessertsIn        = "Десерты в категории \"%s\":"
	txtDrinkNotFound     = "Напиток не найден."
	txtDessertNotFound   = "Десерт не найден."
	txtSpecialNotFound   = "Информация о десерте не найдена."
	txtVariantsNotFound  = "Варианты напитка не найдены."
	txtPickerNotFound    = "Варианты не найдены."
	txtPickVolume        = "Выберите объем %s:"
	txtAllVariantsAbove  = "Выше представлены все варианты %s."
	txtBackToDesserts    = "Нажмите кнопку ниже, чтобы вернуться к категориям десертов:"
	txtSearchResults     = "Результаты поиска для \"%s\":"
	txtSearchNotFound    = "Напитки не найдены. Попробуйте другой запрос."

	btnDrinks            = "Напитки"
	btnDesserts          = "Десерты"
	btnBack              = "Назад"
	btnBackToCategories  = "Назад к категориям"
	btnBackToDessertCats = "Назад к категориям десертов"
	btnBackToVariantsOf  = "Назад к вариантам %s"
)

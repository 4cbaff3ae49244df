package config

// MessagesConfig is the catalog of user- and operator-facing texts. Every
// field can be overridden in the config file; empty fields fall back to the
// defaults below. Fields marked "printf" are format strings and must keep
// their verb count when overridden.
type MessagesConfig struct {
	Welcome      string `yaml:"welcome,omitempty"`
	About        string `yaml:"about,omitempty"`
	ChooseAction string `yaml:"chooseAction,omitempty"`

	ChooseCategory  string `yaml:"chooseCategory,omitempty"`
	InvalidCategory string `yaml:"invalidCategory,omitempty"`

	AskName       string `yaml:"askName,omitempty"`
	NameNotFound  string `yaml:"nameNotFound,omitempty"`
	NameTaken     string `yaml:"nameTaken,omitempty"`
	AskPhone      string `yaml:"askPhone,omitempty"`
	KnownGreeting string `yaml:"knownGreeting,omitempty"` // printf: name, phone

	DescribeProblem string `yaml:"describeProblem,omitempty"`
	ItemAdded       string `yaml:"itemAdded,omitempty"`
	Submitted       string `yaml:"submitted,omitempty"`
	Cancelled       string `yaml:"cancelled,omitempty"`
	FinalizeFailed  string `yaml:"finalizeFailed,omitempty"`

	OperatorSummary string `yaml:"operatorSummary,omitempty"` // printf: name, category label, phone
	OperatorReply   string `yaml:"operatorReply,omitempty"`   // printf: reply text

	ButtonCreate        string `yaml:"buttonCreate,omitempty"`
	ButtonAbout         string `yaml:"buttonAbout,omitempty"`
	ButtonCreateAnother string `yaml:"buttonCreateAnother,omitempty"`
	ButtonSubmit        string `yaml:"buttonSubmit,omitempty"`
	ButtonCancel        string `yaml:"buttonCancel,omitempty"`
}

// DefaultMessages returns the stock Russian message catalog.
func DefaultMessages() MessagesConfig {
	return MessagesConfig{
		Welcome: "Приветствуем! Ты попал в техническую поддержку. Здесь студенты обращаются " +
			"с вопросами касаемо учебного процесса, подачи документов, оплаты и сроков сдачи работ. " +
			"Актуальную информацию передаёт наш специалист на линии поддержки. Добро пожаловать!",
		About: "Техническая поддержка рассчитана как на абитуриентов, так и на действующих студентов: " +
			"помогаем разобраться с подачей и оформлением документов, вопросами оплаты и сроков.",
		ChooseAction: "Выберите действие:",

		ChooseCategory:  "Выберите тип заявки:",
		InvalidCategory: "Пожалуйста, выберите один из предложенных типов заявок.",

		AskName:       "Введите ваше ФИО:",
		NameNotFound:  "ФИО не найдено в базе данных. Пожалуйста, введите корректное ФИО:",
		NameTaken:     "Это ФИО уже используется другим пользователем. Пожалуйста, используйте другое ФИО.",
		AskPhone:      "Введите ваш номер телефона:",
		KnownGreeting: "Привет, %s! Тел: %s.",

		DescribeProblem: "Опишите вашу проблему или отправьте файл/фото. Нажмите кнопку «Отправить заявку», " +
			"когда закончите, или «Отменить заявку», чтобы отменить.",
		ItemAdded: "Ваше сообщение добавлено к заявке. Отправьте «Отправить заявку», чтобы завершить, " +
			"или «Отменить заявку», чтобы отменить.",
		Submitted: "Спасибо! Ваша заявка сохранена и отправлена операторам. Если у вас есть ещё вопросы, " +
			"вы можете создать новую заявку, нажав кнопку ниже.",
		Cancelled:      "Создание заявки отменено.",
		FinalizeFailed: "Не удалось сохранить заявку. Пожалуйста, начните создание заявки заново.",

		OperatorSummary: "Новая заявка от пользователя %s.\nТип заявки: %s\nТелефон: %s\n\n" +
			"Ответьте на это сообщение, чтобы ответ был переслан пользователю.",
		OperatorReply: "Ответ от оператора:\n%s",

		ButtonCreate:        "Создать заявку",
		ButtonAbout:         "О нас",
		ButtonCreateAnother: "Создать новую заявку",
		ButtonSubmit:        "Отправить заявку",
		ButtonCancel:        "Отменить заявку",
	}
}

package i18n

import "golang.org/x/text/language"

var translations = map[language.Tag]map[string]string{
	language.Russian: {
		"nav.about":      "Обо мне",
		"nav.skills":     "Навыки",
		"nav.experience": "Опыт",
		"nav.projects":   "Проекты",
		"nav.contact":    "Контакты",

		"hero.greeting": "Привет, меня зовут",
		"hero.role":     "Backend-разработчик",

		"contact.section":     "// контакты",
		"contact.title":       "Давайте общаться!",
		"contact.description": "Есть идея или проект? Напишите, и я отвечу в удобном для вас канале.",

		"form.name":                    "Имя",
		"form.namePlaceholder":         "Как вас зовут?",
		"form.message":                 "Сообщение",
		"form.messagePlaceholder":      "Расскажите о вашем проекте...",
		"form.channels":                "Как с вами связаться?",
		"form.submit":                  "Отправить сообщение",
		"form.sending":                 "Отправка...",
		"form.success":                 "Сообщение отправлено! Я свяжусь с вами в ближайшее время.",
		"form.error":                   "Не удалось отправить сообщение. Попробуйте позже.",
		"form.validation.fillRequired": "Пожалуйста, заполните все обязательные поля",
		"form.validation.fillContact":  "Пожалуйста, укажите контакт для канала %s",

		"channels.telegram": "Telegram",
		"channels.vk":       "ВКонтакте",
		"channels.max":      "MAX",
		"channels.email":    "Email",
		"channels.phone":    "Телефон",
		"channels.website":  "Сайт",

		"channels.placeholders.telegram": "@username",
		"channels.placeholders.vk":       "vk.com/username",
		"channels.placeholders.max":      "ID в MAX",
		"channels.placeholders.email":    "your@email.com",
		"channels.placeholders.phone":    "+7 (999) 123-45-67",
		"channels.placeholders.website":  "https://example.com",

		"privacy.title": "Политика конфиденциальности",
	},
	language.English: {
		"nav.about":      "About",
		"nav.skills":     "Skills",
		"nav.experience": "Experience",
		"nav.projects":   "Projects",
		"nav.contact":    "Contact",

		"hero.greeting": "Hi, my name is",
		"hero.role":     "Backend developer",

		"contact.section":     "// contact",
		"contact.title":       "Let's talk!",
		"contact.description": "Have an idea or a project? Drop me a line and I will reply through the channel you prefer.",

		"form.name":                    "Name",
		"form.namePlaceholder":         "What is your name?",
		"form.message":                 "Message",
		"form.messagePlaceholder":      "Tell me about your project...",
		"form.channels":                "How can I reach you?",
		"form.submit":                  "Send message",
		"form.sending":                 "Sending...",
		"form.success":                 "Message sent! I will get back to you soon.",
		"form.error":                   "Failed to send the message. Please try again later.",
		"form.validation.fillRequired": "Please fill in all required fields",
		"form.validation.fillContact":  "Please provide a contact for channel %s",

		"channels.telegram": "Telegram",
		"channels.vk":       "VK",
		"channels.max":      "MAX",
		"channels.email":    "Email",
		"channels.phone":    "Phone",
		"channels.website":  "Website",

		"channels.placeholders.telegram": "@username",
		"channels.placeholders.vk":       "vk.com/username",
		"channels.placeholders.max":      "MAX ID",
		"channels.placeholders.email":    "your@email.com",
		"channels.placeholders.phone":    "+1 (555) 123-4567",
		"channels.placeholders.website":  "https://example.com",

		"privacy.title": "Privacy Policy",
	},
}

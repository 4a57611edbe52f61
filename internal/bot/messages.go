// internal/bot/messages.go
package bot

import "taskbot/internal/models"

// Все тексты, которые бот отправляет пользователю.
const (
	msgHelp = "📚 *Доступные команды:*\n\n" +
		"/start - Начать работу с ботом\n" +
		"/add - Добавить новую задачу\n" +
		"/list - Показать список задач\n" +
		"/complete - Отметить задачу как выполненную\n" +
		"/delete - Удалить задачу\n" +
		"/help - Показать эту справку\n" +
		"/cancel - Отменить текущее действие\n\n" +
		"*Приоритеты задач:*\n" +
		"🔴 Высокий - Срочные и важные задачи\n" +
		"🟡 Средний - Обычные задачи\n" +
		"🟢 Низкий - Задачи с низким приоритетом"

	msgAskText     = "📝 Введите описание задачи:\n(или /cancel для отмены)"
	msgAskPriority = "🎯 Выберите приоритет задачи:"
	msgBadPriority = "❌ Пожалуйста, выберите приоритет из списка"
	msgAskReminder = "⏰ Когда напомнить о задаче?"

	msgNoTasks         = "📭 У вас пока нет активных задач.\nИспользуйте /add чтобы добавить новую задачу!"
	msgNoActiveTasks   = "📭 У вас нет активных задач для завершения."
	msgNoTasksToDelete = "📭 У вас нет задач для удаления."

	msgChooseComplete = "Выберите номер задачи для завершения:"
	msgChooseDelete   = "Выберите номер задачи для удаления:"
	msgSendNumber     = "Отправьте номер задачи (например: 1) или /cancel для отмены"
	msgBadNumber      = "❌ Пожалуйста, введите корректный номер задачи."

	msgCancelled = "❌ Действие отменено."
	msgUnknown   = "Я не понял сообщение. Отправьте /help, чтобы посмотреть список команд."
)

func welcomeMessage(firstName string) string {
	return "👋 Привет, " + firstName + "!\n\n" +
		"Я бот для управления задачами. Я помогу тебе:\n" +
		"📝 Создавать задачи\n" +
		"🎯 Организовывать их по приоритетам\n" +
		"⏰ Устанавливать напоминания\n" +
		"✅ Отслеживать выполнение\n\n" +
		"Используй команды:\n" +
		"/add - Добавить новую задачу\n" +
		"/list - Показать все задачи\n" +
		"/complete - Отметить задачу выполненной\n" +
		"/delete - Удалить задачу\n" +
		"/help - Помощь\n" +
		"/cancel - Отменить текущее действие"
}

// priorityKeyboard has one priority per row, like the original bot.
func priorityKeyboard() [][]string {
	rows := make([][]string, 0, 3)
	for _, p := range models.Priorities() {
		rows = append(rows, []string{string(p)})
	}
	return rows
}

func reminderKeyboard() [][]string {
	return [][]string{
		{models.ReminderHour, models.ReminderThree},
		{models.ReminderDay, models.ReminderWeek},
		{models.ReminderNone},
	}
}

// Точка входа seed-инструмента: начальное наполнение хранилища постов.
package main

func main() {
	Execute()
}

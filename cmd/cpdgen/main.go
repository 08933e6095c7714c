// Command cpdgen generates documentation for radio codeplug schemas.
package main

func main() {
	execute()
}

package keypad_test

import (
	"fmt"

	"github.com/rs/zerolog"

	keypad "github.com/atkaper/macro-keypad"
)

func Example() {
	cfg := keypad.DefaultConfig("/dev/ttyACM0")

	sess, err := keypad.Open(cfg, zerolog.Nop())
	if err != nil {
		fmt.Println("open error:", err)
		return
	}
	defer sess.Close()

	// toggle led 1 and read back the reply, if any arrives in time
	resp, err := sess.SendAndWait("t 1")
	if err != nil {
		fmt.Println("send error:", err)
		return
	}

	fmt.Println("response:", resp)
}

package grid_test

import (
	"fmt"
	"time"

	"github.com/matzehuels/timegrid/pkg/grid"
)

func ExampleMapper_TimeForY() {
	m := grid.NewMapper(60, 15*time.Minute)
	day := time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)

	// A finger at 412px lands between grid lines and snaps to the nearest
	// quarter hour.
	fmt.Println(m.TimeForY(412, day).Format("15:04"))
	// Output: 06:45
}

func ExampleMapper_YForTime() {
	m := grid.NewMapper(60, 15*time.Minute)
	t := time.Date(2026, time.March, 9, 10, 30, 0, 0, time.UTC)

	fmt.Println(m.YForTime(t))
	// Output: 630
}

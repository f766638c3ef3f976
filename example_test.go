package elempdf_test

import (
	"context"
	"fmt"
	"log"
	"time"

	elempdf "github.com/porticus-lab/go-element-pdf"
)

func Example() {
	res := elempdf.ConvertHTML(context.Background(),
		`<div id="greeting"><h1>Hello World</h1></div>`,
		elempdf.Request{ElementID: "greeting", OutputPath: "/tmp/greeting.pdf"},
		elempdf.WithNoSandbox(),
	)
	if !res.Success {
		log.Fatal(res.Error)
	}
	fmt.Println("PDF saved to", res.OutputPath)
}

func Example_reuseEngine() {
	eng, err := elempdf.NewChromeEngine(
		elempdf.WithTimeout(60*time.Second),
		elempdf.WithNoSandbox(),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer eng.Close()

	page, err := eng.Open(context.Background(), elempdf.File("report.html"))
	if err != nil {
		log.Fatal(err)
	}
	defer page.Close()

	conv := elempdf.NewPageConverter(page, elempdf.WithDefaultOutputPath())
	results := conv.ConvertAll(context.Background(), []elempdf.Request{
		{ElementID: "summary", PageSize: elempdf.Letter},
		{ElementID: "chart", PageSize: elempdf.A3, Orientation: elempdf.Landscape, WidthOffset: 20},
	})
	for _, r := range results {
		if r.Success {
			fmt.Println("saved", r.OutputPath)
		} else {
			fmt.Printf("%s: %s\n", r.Kind, r.Error)
		}
	}
}

func ExampleInspect() {
	info, err := elempdf.Inspect("/tmp/greeting.pdf")
	if err != nil {
		log.Fatal(err)
	}
	for i, p := range info.Pages {
		fmt.Printf("page %d: %.2f x %.2f pt\n", i+1, p.Width, p.Height)
	}
}

package prompt

import (
	"context"
	"strings"

	"katydid-vehicle-market/pkg/catalog"
)

// exitWord 在车型步骤输入它表示只保留品牌
const exitWord = "exit"

// PickVehicle 按目录依次选择 品牌 -> 车型 -> 类型，只接受目录中存在的名称（区分大小写）
// 在车型步骤输入 Exit 时返回空车型；车型带类型时返回 "车型 类型"
func PickVehicle(ctx context.Context, p *Prompter, cat *catalog.Catalog) (maker, model string, err error) {
	p.Printf("Available brands:\n")
	for i, name := range cat.BrandNames() {
		p.Printf("%d. %s\n", i, name)
	}

	var brand catalog.Brand
	for {
		maker, err = p.Line(ctx, "Brand (type the name exactly as shown)")
		if err != nil {
			return "", "", err
		}
		var ok bool
		if brand, ok = cat.Brand(maker); ok {
			break
		}
		p.Printf("Wrong input. Try again.\n")
	}

	p.Printf("Available models for %s:\n", maker)
	for i, title := range brand.Titles() {
		p.Printf("%d. %s\n", i, title)
	}
	p.Printf("If no model is available, type 'Exit'\n")

	var chosen catalog.Model
	for {
		model, err = p.Line(ctx, "Model (type the name exactly as shown)")
		if err != nil {
			return "", "", err
		}
		if strings.EqualFold(model, exitWord) {
			return maker, "", nil
		}
		var ok bool
		if chosen, ok = cat.Model(maker, model); ok {
			break
		}
		p.Printf("Wrong input. Try again.\n")
	}

	if len(chosen.Types) == 0 {
		return maker, model, nil
	}

	p.Printf("Available types for %s:\n", model)
	for i, t := range chosen.Types {
		p.Printf("%d. %s\n", i, t)
	}
	for {
		kind, err := p.Line(ctx, "Type (type the name exactly as shown)")
		if err != nil {
			return "", "", err
		}
		if chosen.HasType(kind) {
			return maker, model + " " + kind, nil
		}
		p.Printf("Wrong input. Try again.\n")
	}
}

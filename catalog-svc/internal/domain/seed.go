package domain

const unsplash = "https://images.unsplash.com/"

// StarterMenu is loaded into an empty catalog on first start.
func StarterMenu() []Dish {
	return []Dish{
		{
			Name:        "Борщ із пампушками",
			Description: "Традиційний український борщ з яловичиною, сметаною та часниковими пампушками.",
			Price:       185,
			Image:       unsplash + "photo-1594966121993-21c33974d61c?auto=format&fit=crop&q=80&w=800",
			Category:    CategoryFirstCourses,
			Ingredients: []string{"буряк", "яловичина", "капуста", "сметана", "часник"},
		},
		{
			Name:        "Вареники з картоплею",
			Description: "Домашні вареники зі шкварками та смаженою цибулею.",
			Price:       145,
			Image:       unsplash + "photo-1496116218417-1a781b1c416c?auto=format&fit=crop&q=80&w=800",
			Category:    CategoryMainCourses,
			Ingredients: []string{"тісто", "картопля", "шкварки", "цибуля"},
		},
		{
			Name:        "Котлета по-київськи",
			Description: "Соковите куряче філе з вершковим маслом та зеленню всередині.",
			Price:       210,
			Image:       unsplash + "photo-1604908176997-125f25cc6f3d?auto=format&fit=crop&q=80&w=800",
			Category:    CategoryMainCourses,
			Ingredients: []string{"куряче філе", "вершкове масло", "зелень", "панірування"},
		},
		{
			Name:        `Сет "Українське Сало"`,
			Description: "Асорті з копченого, солоного та запеченого сала з гірчицею.",
			Price:       165,
			Image:       unsplash + "photo-1541529086526-db283c563270?auto=format&fit=crop&q=80&w=800",
			Category:    CategoryStarters,
			Ingredients: []string{"сало", "гірчиця", "житній хліб"},
		},
		{
			Name:        "Карпатський Банош",
			Description: "Кукурудзяна каша на вершках з бринзою та білими грибами.",
			Price:       195,
			Image:       unsplash + "photo-1627308595229-7830a5c91f9f?auto=format&fit=crop&q=80&w=800",
			Category:    CategoryMainCourses,
			Ingredients: []string{"кукурудзяна крупа", "вершки", "бринза", "білі гриби"},
		},
		{
			Name:        "Деруни зі сметаною",
			Description: "Хрусткі картопляні оладки за класичним рецептом.",
			Price:       130,
			Image:       unsplash + "photo-1603048588665-791ca8aea617?auto=format&fit=crop&q=80&w=800",
			Category:    CategoryStarters,
			Ingredients: []string{"картопля", "цибуля", "яйце", "сметана"},
		},
	}
}

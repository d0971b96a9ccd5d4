package forma

// contar devolve quantos voxels de cada papel a forma tem.
func (f Forma) contar() map[Papel]int {
	res := make(map[Papel]int)
	for _, v := range f {
		res[v.Papel]++
	}
	return res
}
